// Package roster holds the tenant-scoped course-domain records the control
// plane needs visibility into: students and course groups. The wider course
// product owns their business logic; here they exist as dependency-check
// collaborators and usage-summary inputs, and they demonstrate that every
// persisted domain row goes through the isolation engine.
package roster

import (
	"context"
	"time"

	"kurspanel/internal/isolation"
	"kurspanel/pkg/domain"
)

// Student is a tenant-scoped enrollment record.
type Student struct {
	isolation.Scoped
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	IsActive bool   `json:"is_active"`
}

// CourseGroup is a tenant-scoped class grouping.
type CourseGroup struct {
	isolation.Scoped
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Usage summarizes one tenant's student activity.
type Usage struct {
	TotalStudents        int
	ActiveStudents       int
	LastStudentCreatedAt *time.Time
}

// Store owns the scoped collections and registers them with the isolation
// registry so tenant deletion is blocked while they hold rows.
type Store struct {
	students *isolation.Collection[*Student]
	groups   *isolation.Collection[*CourseGroup]
}

func NewStore(registry *isolation.Registry) *Store {
	s := &Store{
		students: isolation.NewCollection[*Student]("students"),
		groups:   isolation.NewCollection[*CourseGroup]("course groups"),
	}
	if registry != nil {
		registry.Register(s.students)
		registry.Register(s.groups)
	}
	return s
}

// AddStudent stores a student under the ambient tenant scope.
func (s *Store) AddStudent(ctx context.Context, student *Student) error {
	return s.students.Insert(ctx, student.ID, student)
}

// AddCourseGroup stores a course group under the ambient tenant scope.
func (s *Store) AddCourseGroup(ctx context.Context, group *CourseGroup) error {
	return s.groups.Insert(ctx, group.ID, group)
}

// Students lists the students visible under the ambient scope.
func (s *Store) Students(ctx context.Context) ([]*Student, error) {
	return s.students.List(ctx)
}

// UsageFor aggregates one tenant's student usage. The caller supplies a
// bypass-capable context; scoping to the tenant happens here.
func (s *Store) UsageFor(ctx context.Context, tenant domain.TenantID) (Usage, error) {
	rows, err := s.students.List(scopedTo(ctx, tenant))
	if err != nil {
		return Usage{}, err
	}
	usage := Usage{TotalStudents: len(rows)}
	for _, st := range rows {
		if st.IsActive {
			usage.ActiveStudents++
		}
		created := st.CreatedAt
		if usage.LastStudentCreatedAt == nil || created.After(*usage.LastStudentCreatedAt) {
			usage.LastStudentCreatedAt = &created
		}
	}
	return usage, nil
}
