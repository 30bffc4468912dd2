package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hqnguyen/defense-eval-api/internal/models"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Major{}, &models.Rubric{},
		&models.Lecturer{}, &models.Council{}, &models.CouncilMember{},
		&models.Student{}, &models.StudentGroup{}, &models.GroupMember{},
		&models.DefenseSession{}, &models.AnalysisSnapshot{},
	))
	return db
}

func TestSessionRepositoryGetByID(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewSessionRepository(db)

	session := models.DefenseSession{CouncilID: 1, GroupID: 1, Location: "Room 101", Status: models.SessionStatusScheduled}
	require.NoError(t, db.Create(&session).Error)

	stored, err := repo.GetByID(context.Background(), session.ID)
	require.NoError(t, err)
	require.Equal(t, "Room 101", stored.Location)

	_, err = repo.GetByID(context.Background(), 9999)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRubricRepositoryListByMajorOrdersByName(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewRubricRepository(db)

	major := models.Major{Name: "SE", Code: "SE01"}
	other := models.Major{Name: "AI", Code: "AI01"}
	require.NoError(t, db.Create(&major).Error)
	require.NoError(t, db.Create(&other).Error)

	require.NoError(t, db.Create(&models.Rubric{MajorID: major.ID, Name: "Technical Depth"}).Error)
	require.NoError(t, db.Create(&models.Rubric{MajorID: major.ID, Name: "Presentation Skills"}).Error)
	require.NoError(t, db.Create(&models.Rubric{MajorID: other.ID, Name: "Unrelated"}).Error)

	rubrics, err := repo.ListByMajor(context.Background(), major.ID)
	require.NoError(t, err)
	require.Len(t, rubrics, 2)
	require.Equal(t, "Presentation Skills", rubrics[0].Name)
	require.Equal(t, "Technical Depth", rubrics[1].Name)

	empty, err := repo.ListByMajor(context.Background(), 9999)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestCommitteeRepositoryFiltersInactiveAndJoinsLecturer(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewCommitteeRepository(db)

	council := models.Council{Name: "C1", MajorID: 1}
	require.NoError(t, db.Create(&council).Error)

	active := models.Lecturer{Name: "Dr. Active", Email: "active@uni.edu"}
	inactive := models.Lecturer{Name: "Dr. Inactive", Email: "inactive@uni.edu"}
	require.NoError(t, db.Create(&active).Error)
	require.NoError(t, db.Create(&inactive).Error)

	require.NoError(t, db.Create(&models.CouncilMember{CouncilID: council.ID, LecturerID: active.ID, Role: "Chair", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.CouncilMember{CouncilID: council.ID, LecturerID: inactive.ID, Role: "Member", IsActive: false}).Error)

	members, err := repo.ListActiveByCouncil(context.Background(), council.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, "Chair", members[0].Role)
	require.Equal(t, "Dr. Active", members[0].Lecturer.Name)
}

func TestGroupRepositoryActiveMembersJoinStudent(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewGroupRepository(db)

	group := models.StudentGroup{Name: "G1", ProjectTitle: "P"}
	require.NoError(t, db.Create(&group).Error)

	current := models.Student{Name: "Current", Code: "SV001"}
	former := models.Student{Name: "Former", Code: "SV002"}
	require.NoError(t, db.Create(&current).Error)
	require.NoError(t, db.Create(&former).Error)

	require.NoError(t, db.Create(&models.GroupMember{GroupID: group.ID, StudentID: current.ID, Role: "Leader", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.GroupMember{GroupID: group.ID, StudentID: former.ID, Role: "Member", IsActive: false}).Error)

	members, err := repo.ListActiveMembers(context.Background(), group.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, "Current", members[0].Student.Name)
}

func TestSnapshotRepositorySave(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewSnapshotRepository(db)

	snapshot := models.AnalysisSnapshot{
		SessionID: 12,
		Kind:      models.SnapshotKindAnalysis,
		Outcome:   "success",
		Result:    datatypes.JSONMap{"summary": map[string]interface{}{"overallSummary": "ok"}},
		Model:     "gpt-4o-mini",
	}
	require.NoError(t, repo.Save(context.Background(), &snapshot))
	require.NotZero(t, snapshot.ID)

	var stored models.AnalysisSnapshot
	require.NoError(t, db.First(&stored, snapshot.ID).Error)
	require.Equal(t, uint(12), stored.SessionID)
	require.Equal(t, "success", stored.Outcome)
}
