package repository

// Repositories is a container for all repository instances.
type Repositories struct {
	Existence *ExistenceChecker
	Articles  *ArticleRepository
	Comments  *CommentRepository
	Topics    *TopicRepository
	Users     *UserRepository
}

// NewRepositories constructs the repository container over a shared pool.
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		Existence: NewExistenceChecker(db),
		Articles:  NewArticleRepository(db),
		Comments:  NewCommentRepository(db),
		Topics:    NewTopicRepository(db),
		Users:     NewUserRepository(db),
	}
}
