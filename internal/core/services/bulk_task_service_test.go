package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finkit/bulk_payout_app/internal/apperrors"
	"github.com/finkit/bulk_payout_app/internal/core/domain"
	"github.com/finkit/bulk_payout_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type BulkTaskServiceTestSuite struct {
	suite.Suite
	mockTaskRepo *MockBulkTaskRepository
	accountID    string
}

func (suite *BulkTaskServiceTestSuite) SetupTest() {
	suite.mockTaskRepo = new(MockBulkTaskRepository)
	suite.accountID = uuid.NewString()
}

func (suite *BulkTaskServiceTestSuite) processingTask(lastUpdate time.Time) *domain.BulkTask {
	return &domain.BulkTask{
		TaskID:            uuid.NewString(),
		AccountID:         suite.accountID,
		FileName:          "payouts.xlsx",
		TotalRecords:      100,
		ProcessedRecords:  40,
		SuccessfulRecords: 38,
		FailedRecords:     2,
		BatchSize:         10,
		Status:            domain.TaskProcessing,
		CreatedAt:         lastUpdate.Add(-time.Hour),
		UpdatedAt:         lastUpdate,
	}
}

func (suite *BulkTaskServiceTestSuite) TestGetTask_FreshProcessingPassesThrough() {
	svc := services.NewBulkTaskService(suite.mockTaskRepo)
	task := suite.processingTask(time.Now().UTC().Add(-time.Minute))

	suite.mockTaskRepo.On("FindTaskByID", mock.Anything, suite.accountID, task.TaskID).Return(task, nil).Once()

	got, err := svc.GetTask(context.Background(), suite.accountID, task.TaskID)

	suite.Require().NoError(err)
	suite.Equal(domain.TaskProcessing, got.Status)
	suite.Empty(got.Errors)
	suite.mockTaskRepo.AssertNotCalled(suite.T(), "MarkFailed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BulkTaskServiceTestSuite) TestGetTask_StalledTaskSweptToFailed() {
	svc := services.NewBulkTaskService(suite.mockTaskRepo, services.WithTaskStaleThreshold(10*time.Minute))
	task := suite.processingTask(time.Now().UTC().Add(-15 * time.Minute))

	persisted := make(chan domain.TaskError, 1)
	suite.mockTaskRepo.On("FindTaskByID", mock.Anything, suite.accountID, task.TaskID).Return(task, nil).Once()
	suite.mockTaskRepo.On("MarkFailed", mock.Anything, task.TaskID, mock.AnythingOfType("domain.TaskError"), mock.AnythingOfType("time.Time")).Run(func(args mock.Arguments) {
		persisted <- args.Get(2).(domain.TaskError)
	}).Return(nil).Once()

	got, err := svc.GetTask(context.Background(), suite.accountID, task.TaskID)

	// The caller sees the corrected state immediately.
	suite.Require().NoError(err)
	suite.Equal(domain.TaskFailed, got.Status)
	suite.Require().Len(got.Errors, 1)
	suite.Equal(-1, got.Errors[0].Row)
	suite.Contains(got.Errors[0].Message, "timed out")

	// The correction is persisted asynchronously.
	select {
	case taskErr := <-persisted:
		suite.Equal(-1, taskErr.Row)
	case <-time.After(2 * time.Second):
		suite.FailNow("stalled task correction was not persisted")
	}

	// Records already processed keep their counters.
	suite.Equal(40, got.ProcessedRecords)
	suite.Equal(38, got.SuccessfulRecords)
}

func (suite *BulkTaskServiceTestSuite) TestGetTask_TerminalTaskNeverSwept() {
	svc := services.NewBulkTaskService(suite.mockTaskRepo)
	task := suite.processingTask(time.Now().UTC().Add(-24 * time.Hour))
	task.Status = domain.TaskCompleted

	suite.mockTaskRepo.On("FindTaskByID", mock.Anything, suite.accountID, task.TaskID).Return(task, nil).Once()

	got, err := svc.GetTask(context.Background(), suite.accountID, task.TaskID)

	suite.Require().NoError(err)
	suite.Equal(domain.TaskCompleted, got.Status)
	suite.mockTaskRepo.AssertNotCalled(suite.T(), "MarkFailed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BulkTaskServiceTestSuite) TestGetTask_NotFound() {
	svc := services.NewBulkTaskService(suite.mockTaskRepo)
	taskID := uuid.NewString()

	suite.mockTaskRepo.On("FindTaskByID", mock.Anything, suite.accountID, taskID).Return(nil, apperrors.ErrNotFound).Once()

	got, err := svc.GetTask(context.Background(), suite.accountID, taskID)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(got)
}

func (suite *BulkTaskServiceTestSuite) TestListTasks_SweepsOnlyStalledOnes() {
	svc := services.NewBulkTaskService(suite.mockTaskRepo, services.WithTaskStaleThreshold(10*time.Minute))

	stalled := suite.processingTask(time.Now().UTC().Add(-30 * time.Minute))
	fresh := suite.processingTask(time.Now().UTC())
	completed := suite.processingTask(time.Now().UTC().Add(-2 * time.Hour))
	completed.Status = domain.TaskCompleted

	persisted := make(chan string, 1)
	suite.mockTaskRepo.On("ListTasksByAccount", mock.Anything, suite.accountID).Return([]domain.BulkTask{*stalled, *fresh, *completed}, nil).Once()
	suite.mockTaskRepo.On("MarkFailed", mock.Anything, stalled.TaskID, mock.AnythingOfType("domain.TaskError"), mock.AnythingOfType("time.Time")).Run(func(args mock.Arguments) {
		persisted <- args.String(1)
	}).Return(nil).Once()

	tasks, err := svc.ListTasks(context.Background(), suite.accountID)

	suite.Require().NoError(err)
	suite.Require().Len(tasks, 3)
	suite.Equal(domain.TaskFailed, tasks[0].Status)
	suite.Equal(domain.TaskProcessing, tasks[1].Status)
	suite.Equal(domain.TaskCompleted, tasks[2].Status)

	select {
	case id := <-persisted:
		suite.Equal(stalled.TaskID, id)
	case <-time.After(2 * time.Second):
		suite.FailNow("stalled task correction was not persisted")
	}
}

func TestBulkTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BulkTaskServiceTestSuite))
}
