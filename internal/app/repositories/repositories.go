package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	LabRepository        *LabRepository
	AssignmentRepository *AssignmentRepository
	BatchRepository      *BatchRepository
	MarksRepository      *MarksRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		LabRepository:        NewLabRepository(db),
		AssignmentRepository: NewAssignmentRepository(db),
		BatchRepository:      NewBatchRepository(db),
		MarksRepository:      NewMarksRepository(db),
	}
}
