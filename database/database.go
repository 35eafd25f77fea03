package database

import (
	"gorm.io/gorm"
)

type Database struct {
	projectRepo  *ProjectRepo
	employeeRepo *EmployeeRepo
	keyStepRepo  *KeyStepRepo
	taskRepo     *TaskRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		projectRepo:  NewProjectRepo(db),
		employeeRepo: NewEmployeeRepo(db),
		keyStepRepo:  NewKeyStepRepo(db),
		taskRepo:     NewTaskRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) EmployeeRepo() *EmployeeRepo {
	return d.employeeRepo
}

func (d Database) KeyStepRepo() *KeyStepRepo {
	return d.keyStepRepo
}

func (d Database) TaskRepo() *TaskRepo {
	return d.taskRepo
}
