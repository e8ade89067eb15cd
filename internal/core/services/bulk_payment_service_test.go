package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/finkit/bulk_payout_app/internal/apperrors"
	"github.com/finkit/bulk_payout_app/internal/core/domain"
	"github.com/finkit/bulk_payout_app/internal/core/ports"
	portssvc "github.com/finkit/bulk_payout_app/internal/core/ports/services"
	"github.com/finkit/bulk_payout_app/internal/core/services"
	"github.com/finkit/bulk_payout_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockBulkTaskRepository is a mock type for the BulkTaskRepository interface
type MockBulkTaskRepository struct {
	mock.Mock
}

func (m *MockBulkTaskRepository) SaveTask(ctx context.Context, task domain.BulkTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockBulkTaskRepository) MarkProcessing(ctx context.Context, taskID string, now time.Time) error {
	args := m.Called(ctx, taskID, now)
	return args.Error(0)
}

func (m *MockBulkTaskRepository) ApplyBatchProgress(ctx context.Context, taskID string, progress domain.BatchProgress, now time.Time) error {
	args := m.Called(ctx, taskID, progress, now)
	return args.Error(0)
}

func (m *MockBulkTaskRepository) MarkCompleted(ctx context.Context, taskID string, now time.Time) error {
	args := m.Called(ctx, taskID, now)
	return args.Error(0)
}

func (m *MockBulkTaskRepository) MarkFailed(ctx context.Context, taskID string, taskErr domain.TaskError, now time.Time) error {
	args := m.Called(ctx, taskID, taskErr, now)
	return args.Error(0)
}

func (m *MockBulkTaskRepository) FindTaskByID(ctx context.Context, accountID, taskID string) (*domain.BulkTask, error) {
	args := m.Called(ctx, accountID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BulkTask), args.Error(1)
}

func (m *MockBulkTaskRepository) ListTasksByAccount(ctx context.Context, accountID string) ([]domain.BulkTask, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BulkTask), args.Error(1)
}

// stubExecutor scripts the per-record outcome by beneficiary name.
type stubExecutor struct {
	failures map[string]string // beneficiary name -> failure message
	fatalFor string            // beneficiary name that triggers a fatal error
}

func (e *stubExecutor) ExecutePayment(ctx context.Context, accountID string, rec domain.PaymentRecord) (services.PaymentResult, error) {
	if e.fatalFor != "" && rec.BeneficiaryName == e.fatalFor {
		return services.PaymentResult{}, fmt.Errorf("ledger store down")
	}
	if msg, ok := e.failures[rec.BeneficiaryName]; ok {
		return services.PaymentResult{Success: false, Message: msg, Record: rec}, nil
	}
	return services.PaymentResult{Success: true, EntryID: uuid.NewString(), Record: rec}, nil
}

// noopPacer admits every call immediately.
type noopPacer struct{}

func (noopPacer) Wait(ctx context.Context) error { return ctx.Err() }

// --- Test Suite Setup ---

type BulkPaymentServiceTestSuite struct {
	suite.Suite
	mockTaskRepo    *MockBulkTaskRepository
	mockAccountRepo *MockAccountRepository
	executor        *stubExecutor
	accountID       string
}

func (suite *BulkPaymentServiceTestSuite) SetupTest() {
	suite.mockTaskRepo = new(MockBulkTaskRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.executor = &stubExecutor{}
	suite.accountID = uuid.NewString()
}

func (suite *BulkPaymentServiceTestSuite) newService(opts ...services.BulkPaymentServiceOption) portssvc.BulkPaymentSvcFacade {
	base := []services.BulkPaymentServiceOption{services.WithPacer(func() ports.Pacer { return noopPacer{} })}
	return services.NewBulkPaymentService(suite.mockTaskRepo, suite.mockAccountRepo, suite.executor, append(base, opts...)...)
}

func (suite *BulkPaymentServiceTestSuite) expectAccount(balance int64) {
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, suite.accountID).Return(&domain.Account{
		AccountID: suite.accountID,
		Name:      "Acme Payouts",
		Balance:   decimal.NewFromInt(balance),
		IsActive:  true,
	}, nil).Once()
}

func payoutRow(name, amount string) domain.RawRow {
	return domain.RawRow{
		"amount":                   amount,
		"beneficiary_name":         name,
		"beneficiary_account_numb": "000" + name,
		"beneficiary_ifsc_code":    "HDFC0001234",
	}
}

func submission(rows ...domain.RawRow) dto.BulkPaymentSubmission {
	return dto.BulkPaymentSubmission{
		FileName:         "payouts.xlsx",
		Rows:             rows,
		PaymentMode:      "IMPS",
		GatewayAuthToken: "gw-token",
	}
}

// --- Test Cases ---

func (suite *BulkPaymentServiceTestSuite) TestSubmit_EmptyFile() {
	suite.expectAccount(1000)
	svc := suite.newService()

	task, err := svc.SubmitBulkPayment(context.Background(), suite.accountID, submission())

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(task)
	suite.mockTaskRepo.AssertNotCalled(suite.T(), "SaveTask", mock.Anything, mock.Anything)
}

func (suite *BulkPaymentServiceTestSuite) TestSubmit_MissingColumns() {
	suite.expectAccount(1000)
	svc := suite.newService()

	sub := submission(domain.RawRow{"amount": "10", "beneficiary_name": "A"})
	task, err := svc.SubmitBulkPayment(context.Background(), suite.accountID, sub)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "missing required columns")
	suite.Nil(task)
}

func (suite *BulkPaymentServiceTestSuite) TestSubmit_InvalidPaymentMode() {
	suite.expectAccount(1000)
	svc := suite.newService()

	sub := submission(payoutRow("Asha", "10"))
	sub.PaymentMode = "UPI"
	task, err := svc.SubmitBulkPayment(context.Background(), suite.accountID, sub)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(task)
}

func (suite *BulkPaymentServiceTestSuite) TestSubmit_MissingToken() {
	suite.expectAccount(1000)
	svc := suite.newService()

	sub := submission(payoutRow("Asha", "10"))
	sub.GatewayAuthToken = "  "
	_, err := svc.SubmitBulkPayment(context.Background(), suite.accountID, sub)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BulkPaymentServiceTestSuite) TestSubmit_InsufficientBalance() {
	suite.expectAccount(100)
	svc := suite.newService()

	sub := submission(payoutRow("Asha", "80"), payoutRow("Vikram", "30"))
	task, err := svc.SubmitBulkPayment(context.Background(), suite.accountID, sub)

	suite.Require().ErrorIs(err, apperrors.ErrInsufficientBalance)
	// The message names both the required and the available amounts.
	suite.Contains(err.Error(), "110")
	suite.Contains(err.Error(), "100")
	suite.Nil(task)
	suite.mockTaskRepo.AssertNotCalled(suite.T(), "SaveTask", mock.Anything, mock.Anything)
}

func (suite *BulkPaymentServiceTestSuite) TestSubmit_RunsToCompletion() {
	suite.expectAccount(1000)
	svc := suite.newService(services.WithBatchSize(2))

	done := make(chan struct{})
	suite.mockTaskRepo.On("SaveTask", mock.Anything, mock.MatchedBy(func(t domain.BulkTask) bool {
		return t.Status == domain.TaskPending && t.TotalRecords == 3 && t.AccountID == suite.accountID
	})).Return(nil).Once()
	suite.mockTaskRepo.On("MarkProcessing", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTaskRepo.On("ApplyBatchProgress", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("domain.BatchProgress"), mock.AnythingOfType("time.Time")).Return(nil).Twice()
	suite.mockTaskRepo.On("MarkCompleted", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Run(func(args mock.Arguments) {
		close(done)
	}).Return(nil).Once()

	sub := submission(payoutRow("Asha", "10"), payoutRow("Vikram", "20"), payoutRow("Meera", "30"))
	task, err := svc.SubmitBulkPayment(context.Background(), suite.accountID, sub)

	suite.Require().NoError(err)
	suite.Require().NotNil(task)
	suite.Equal(domain.TaskPending, task.Status)
	suite.Equal(3, task.TotalRecords)
	suite.Equal(0, task.ProcessedRecords)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		suite.FailNow("batch executor did not complete in time")
	}
	suite.mockTaskRepo.AssertExpectations(suite.T())
}

func (suite *BulkPaymentServiceTestSuite) TestSubmit_CheckpointsInBatchSizedGroups() {
	suite.expectAccount(100000)
	svc := suite.newService(services.WithBatchSize(10))

	var mu sync.Mutex
	var groupSizes []int
	done := make(chan struct{})

	suite.mockTaskRepo.On("SaveTask", mock.Anything, mock.AnythingOfType("domain.BulkTask")).Return(nil).Once()
	suite.mockTaskRepo.On("MarkProcessing", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTaskRepo.On("ApplyBatchProgress", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("domain.BatchProgress"), mock.AnythingOfType("time.Time")).Run(func(args mock.Arguments) {
		mu.Lock()
		groupSizes = append(groupSizes, args.Get(2).(domain.BatchProgress).Processed)
		mu.Unlock()
	}).Return(nil).Times(3)
	suite.mockTaskRepo.On("MarkCompleted", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Run(func(args mock.Arguments) {
		close(done)
	}).Return(nil).Once()

	rows := make([]domain.RawRow, 0, 25)
	for i := 0; i < 25; i++ {
		rows = append(rows, payoutRow(fmt.Sprintf("Payee%02d", i), "10"))
	}
	_, err := svc.SubmitBulkPayment(context.Background(), suite.accountID, submission(rows...))
	suite.Require().NoError(err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		suite.FailNow("batch executor did not complete in time")
	}

	mu.Lock()
	defer mu.Unlock()
	suite.Equal([]int{10, 10, 5}, groupSizes)
}

func (suite *BulkPaymentServiceTestSuite) TestSubmit_CollectsPerRecordFailures() {
	suite.expectAccount(1000)
	suite.executor.failures = map[string]string{"Vikram": "beneficiary account blocked"}
	svc := suite.newService(services.WithBatchSize(10))

	done := make(chan domain.BatchProgress, 1)
	suite.mockTaskRepo.On("SaveTask", mock.Anything, mock.AnythingOfType("domain.BulkTask")).Return(nil).Once()
	suite.mockTaskRepo.On("MarkProcessing", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTaskRepo.On("ApplyBatchProgress", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("domain.BatchProgress"), mock.AnythingOfType("time.Time")).Run(func(args mock.Arguments) {
		done <- args.Get(2).(domain.BatchProgress)
	}).Return(nil).Once()
	suite.mockTaskRepo.On("MarkCompleted", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()

	sub := submission(payoutRow("Asha", "10"), payoutRow("Vikram", "20"), payoutRow("Meera", "30"))
	_, err := svc.SubmitBulkPayment(context.Background(), suite.accountID, sub)
	suite.Require().NoError(err)

	select {
	case progress := <-done:
		suite.Equal(3, progress.Processed)
		suite.Equal(2, progress.Successful)
		suite.Equal(1, progress.Failed)
		suite.Require().Len(progress.Errors, 1)
		// Row numbers are 1-based input positions.
		suite.Equal(2, progress.Errors[0].Row)
		suite.Equal("beneficiary account blocked", progress.Errors[0].Message)
		suite.Equal("Vikram", progress.Errors[0].Record["beneficiary_name"])
	case <-time.After(2 * time.Second):
		suite.FailNow("batch executor did not checkpoint in time")
	}
}

func (suite *BulkPaymentServiceTestSuite) TestSubmit_PipelineFatalMarksTaskFailed() {
	suite.expectAccount(1000)
	suite.executor.fatalFor = "Vikram"
	svc := suite.newService()

	done := make(chan domain.TaskError, 1)
	suite.mockTaskRepo.On("SaveTask", mock.Anything, mock.AnythingOfType("domain.BulkTask")).Return(nil).Once()
	suite.mockTaskRepo.On("MarkProcessing", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTaskRepo.On("MarkFailed", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("domain.TaskError"), mock.AnythingOfType("time.Time")).Run(func(args mock.Arguments) {
		done <- args.Get(2).(domain.TaskError)
	}).Return(nil).Once()

	sub := submission(payoutRow("Asha", "10"), payoutRow("Vikram", "20"))
	_, err := svc.SubmitBulkPayment(context.Background(), suite.accountID, sub)
	suite.Require().NoError(err)

	select {
	case taskErr := <-done:
		// Task-level failures use row -1.
		suite.Equal(-1, taskErr.Row)
		suite.Contains(taskErr.Message, "ledger store down")
	case <-time.After(2 * time.Second):
		suite.FailNow("task was not marked failed in time")
	}
	suite.mockTaskRepo.AssertNotCalled(suite.T(), "MarkCompleted", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BulkPaymentServiceTestSuite) TestSubmit_AccountLookupFails() {
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, suite.accountID).Return(nil, apperrors.ErrNotFound).Once()
	svc := suite.newService()

	_, err := svc.SubmitBulkPayment(context.Background(), suite.accountID, submission(payoutRow("Asha", "10")))

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTaskRepo.AssertNotCalled(suite.T(), "SaveTask", mock.Anything, mock.Anything)
}

func (suite *BulkPaymentServiceTestSuite) TestSubmit_TasksPaceIndependently() {
	suite.expectAccount(1000)
	suite.expectAccount(1000)

	// Real pacing, no noopPacer override: each executor run builds its
	// own pacer, so two concurrent tasks must not share an admission
	// budget. Three calls at 300ms spacing finish in well under a second
	// per task; a shared pacer would stretch the pair past 1.5s.
	interval := 300 * time.Millisecond
	svc := services.NewBulkPaymentService(
		suite.mockTaskRepo,
		suite.mockAccountRepo,
		suite.executor,
		services.WithBatchSize(3),
		services.WithGatewayInterval(interval),
	)

	done := make(chan struct{}, 2)
	suite.mockTaskRepo.On("SaveTask", mock.Anything, mock.AnythingOfType("domain.BulkTask")).Return(nil).Twice()
	suite.mockTaskRepo.On("MarkProcessing", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Twice()
	suite.mockTaskRepo.On("ApplyBatchProgress", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("domain.BatchProgress"), mock.AnythingOfType("time.Time")).Return(nil).Twice()
	suite.mockTaskRepo.On("MarkCompleted", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Run(func(args mock.Arguments) {
		done <- struct{}{}
	}).Return(nil).Twice()

	start := time.Now()
	for i := 0; i < 2; i++ {
		sub := submission(payoutRow("Asha", "10"), payoutRow("Vikram", "20"), payoutRow("Meera", "30"))
		_, err := svc.SubmitBulkPayment(context.Background(), suite.accountID, sub)
		suite.Require().NoError(err)
	}

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			suite.FailNow("batch executors did not complete in time")
		}
	}
	elapsed := time.Since(start)

	suite.Lessf(elapsed, 4*interval, "tasks serialized against each other: pair took %s", elapsed)
	suite.mockTaskRepo.AssertExpectations(suite.T())
}

func TestBulkPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BulkPaymentServiceTestSuite))
}
