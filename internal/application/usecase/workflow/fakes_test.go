package workflow

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/procure-match/backend/internal/application/adapter"
	"github.com/procure-match/backend/internal/application/usecase/matching"
	"github.com/procure-match/backend/internal/domain/entity"
	domainerror "github.com/procure-match/backend/internal/domain/error"
	"github.com/procure-match/backend/internal/domain/valueobject"
)

// fakeDocumentRepo serves a fixed document set.
type fakeDocumentRepo struct {
	set   *adapter.DocumentSet
	err   error
	calls int
}

func (f *fakeDocumentRepo) GetDocumentSet(_ context.Context, _ uuid.UUID) (*adapter.DocumentSet, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.set, nil
}

// fakeReconRepo keeps the cycle, resolutions and audit log in memory and
// enforces the same version checks as the real repository.
type fakeReconRepo struct {
	mu          sync.Mutex
	cycle       adapter.CycleData
	resolutions []adapter.ResolutionData
	creditNotes []*entity.CreditNote
	events      []*entity.AuditEvent
}

func newFakeReconRepo(purchaseOrderID uuid.UUID) *fakeReconRepo {
	return &fakeReconRepo{
		cycle: adapter.CycleData{
			PurchaseOrderID: purchaseOrderID,
			CycleNumber:     1,
			State:           valueobject.StateUnderReview,
			Version:         1,
		},
	}
}

func (f *fakeReconRepo) GetOrCreateCycle(_ context.Context, _ uuid.UUID) (*adapter.CycleData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cycle := f.cycle
	return &cycle, nil
}

func (f *fakeReconRepo) ListResolutions(_ context.Context, _ uuid.UUID, _ int) ([]adapter.ResolutionData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]adapter.ResolutionData, len(f.resolutions))
	copy(out, f.resolutions)
	return out, nil
}

func (f *fakeReconRepo) AppendResolution(_ context.Context, _ uuid.UUID, _ int, resolution adapter.ResolutionData, expectedVersion int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if expectedVersion != f.cycle.Version {
		return domainerror.NewWorkflowError(
			domainerror.ErrCodeConcurrencyConflict,
			"reconciliation state changed concurrently",
			domainerror.ErrConcurrencyConflict,
		)
	}
	for _, existing := range f.resolutions {
		if existing.ItemKey == resolution.ItemKey {
			return domainerror.NewWorkflowError(
				domainerror.ErrCodeAlreadyResolved,
				"record is already resolved within this cycle",
				domainerror.ErrAlreadyResolved,
			)
		}
	}
	f.resolutions = append(f.resolutions, resolution)
	f.cycle.Version++
	return nil
}

func (f *fakeReconRepo) TransitionCycleState(_ context.Context, _ uuid.UUID, _ int, from, to valueobject.WorkflowState, expectedVersion int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if expectedVersion != f.cycle.Version || f.cycle.State != from {
		return domainerror.NewWorkflowError(
			domainerror.ErrCodeConcurrencyConflict,
			"reconciliation state changed concurrently",
			domainerror.ErrConcurrencyConflict,
		)
	}
	f.cycle.State = to
	f.cycle.Version++
	return nil
}

func (f *fakeReconRepo) SaveCreditNote(_ context.Context, note *entity.CreditNote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creditNotes = append(f.creditNotes, note)
	return nil
}

func (f *fakeReconRepo) AppendAuditEvent(_ context.Context, event *entity.AuditEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeReconRepo) ListAuditEvents(_ context.Context, _ uuid.UUID) ([]*entity.AuditEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.AuditEvent, len(f.events))
	copy(out, f.events)
	return out, nil
}

// fakeSessionLock tracks acquisitions and can simulate a held lock.
type fakeSessionLock struct {
	held     bool
	acquired int
	released int
}

func (f *fakeSessionLock) Acquire(_ context.Context, _ uuid.UUID) (func(), error) {
	if f.held {
		return nil, domainerror.NewWorkflowError(
			domainerror.ErrCodeSessionLocked,
			"another reviewer is working on this purchase order",
			domainerror.ErrSessionLocked,
		)
	}
	f.acquired++
	return func() { f.released++ }, nil
}

// fakeSummaryCache is a map-backed cache with an optional write failure.
type fakeSummaryCache struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*valueobject.MatchSummary
	setErr  error
}

func newFakeSummaryCache() *fakeSummaryCache {
	return &fakeSummaryCache{entries: make(map[uuid.UUID]*valueobject.MatchSummary)}
}

func (f *fakeSummaryCache) Get(_ context.Context, purchaseOrderID uuid.UUID) (*valueobject.MatchSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[purchaseOrderID], nil
}

func (f *fakeSummaryCache) Set(_ context.Context, summary *valueobject.MatchSummary) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[summary.PurchaseOrderID] = summary
	return nil
}

func (f *fakeSummaryCache) Invalidate(_ context.Context, purchaseOrderID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, purchaseOrderID)
	return nil
}

// fakeNotificationService records queued notifications.
type fakeNotificationService struct {
	creditNotes []adapter.QueueCreditNoteIssuedInput
	accepted    []adapter.QueueVariancesAcceptedInput
	err         error
}

func (f *fakeNotificationService) QueueCreditNoteIssued(_ context.Context, input adapter.QueueCreditNoteIssuedInput) error {
	if f.err != nil {
		return f.err
	}
	f.creditNotes = append(f.creditNotes, input)
	return nil
}

func (f *fakeNotificationService) QueueVariancesAccepted(_ context.Context, input adapter.QueueVariancesAcceptedInput) error {
	if f.err != nil {
		return f.err
	}
	f.accepted = append(f.accepted, input)
	return nil
}

// testEnv wires the workflow use cases over in-memory fakes.
type testEnv struct {
	purchaseOrderID uuid.UUID
	documents       *fakeDocumentRepo
	recon           *fakeReconRepo
	lock            *fakeSessionLock
	cache           *fakeSummaryCache
	notifications   *fakeNotificationService

	summaries  *matching.ComputeSummaryUseCase
	resolve    *ResolveVarianceUseCase
	accept     *AcceptAllUseCase
	creditNote *GenerateCreditNoteUseCase
	auditTrail *GetAuditTrailUseCase
}

func newTestEnv(set *adapter.DocumentSet) *testEnv {
	env := &testEnv{
		purchaseOrderID: set.PurchaseOrder.ID,
		documents:       &fakeDocumentRepo{set: set},
		recon:           newFakeReconRepo(set.PurchaseOrder.ID),
		lock:            &fakeSessionLock{},
		cache:           newFakeSummaryCache(),
		notifications:   &fakeNotificationService{},
	}

	env.summaries = matching.NewComputeSummaryUseCase(
		env.documents,
		env.recon,
		env.cache,
		valueobject.DefaultTolerancePolicy(),
		valueobject.DefaultSummaryThresholds(),
	)
	env.resolve = NewResolveVarianceUseCase(env.lock, env.recon, env.cache, env.summaries)
	env.accept = NewAcceptAllUseCase(env.lock, env.documents, env.recon, env.cache, env.notifications, env.summaries)
	env.creditNote = NewGenerateCreditNoteUseCase(env.lock, env.documents, env.recon, env.cache, env.notifications, env.summaries)
	env.auditTrail = NewGetAuditTrailUseCase(env.documents, env.recon)

	return env
}
