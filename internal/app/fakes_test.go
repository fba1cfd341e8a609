package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"evaluation_reminder_service/internal/domain/assignment"
	"evaluation_reminder_service/internal/domain/employer"
	"evaluation_reminder_service/internal/domain/evaluation"
	"evaluation_reminder_service/internal/domain/notify"
	idb "evaluation_reminder_service/internal/infra/database"
)

type fakeAssignmentSource struct {
	assignments []*assignment.Assignment
	err         error
}

func (f *fakeAssignmentSource) ListActive(context.Context) ([]*assignment.Assignment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.assignments, nil
}

type fakeDirectory struct {
	byCompany map[int64][]*employer.Employer
	err       error
}

func (f *fakeDirectory) ListByCompany(_ context.Context, companyID int64) ([]*employer.Employer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byCompany[companyID], nil
}

type recordKey struct {
	employerID  int64
	candidateID int64
	jobID       int64
	periodStart int64
}

// memReminderRepo is an in-memory evaluation.Repository. It hands out
// copies and applies mutations only through the two save methods,
// mirroring the database-backed implementation including the
// open-record guard on both writers.
type memReminderRepo struct {
	mu        sync.Mutex
	nextID    int64
	records   map[recordKey]*evaluation.Record
	saveCalls int
	saveErr   error
}

func newMemReminderRepo() *memReminderRepo {
	return &memReminderRepo{records: make(map[recordKey]*evaluation.Record)}
}

func keyOf(employerID, candidateID, jobID int64, periodStart time.Time) recordKey {
	return recordKey{employerID, candidateID, jobID, periodStart.Unix()}
}

func (m *memReminderRepo) seed(rec *evaluation.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	rec.ID = m.nextID
	cp := *rec
	m.records[keyOf(rec.EmployerID, rec.CandidateID, rec.JobID, rec.PeriodStart)] = &cp
}

func (m *memReminderRepo) stored(employerID, candidateID, jobID int64, periodStart time.Time) *evaluation.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[keyOf(employerID, candidateID, jobID, periodStart)]; ok {
		cp := *r
		return &cp
	}
	return nil
}

func (m *memReminderRepo) GetOrCreate(_ context.Context, employerID, candidateID, jobID int64, periodStart, periodEnd time.Time) (*evaluation.Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := keyOf(employerID, candidateID, jobID, periodStart)
	if r, ok := m.records[key]; ok {
		cp := *r
		return &cp, false, nil
	}
	m.nextID++
	r := &evaluation.Record{
		ID:          m.nextID,
		EmployerID:  employerID,
		CandidateID: candidateID,
		JobID:       jobID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
	}
	m.records[key] = r
	cp := *r
	return &cp, true, nil
}

func (m *memReminderRepo) Get(_ context.Context, employerID, candidateID, jobID int64, periodStart time.Time) (*evaluation.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[keyOf(employerID, candidateID, jobID, periodStart)]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, idb.ErrReminderRecordNotFound
}

func (m *memReminderRepo) FindOpen(_ context.Context, employerID, candidateID, jobID int64, periodStart time.Time) (*evaluation.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[keyOf(employerID, candidateID, jobID, periodStart)]; ok && !r.CommentProvided {
		cp := *r
		return &cp, nil
	}
	return nil, idb.ErrReminderRecordNotFound
}

func (m *memReminderRepo) ListOpen(_ context.Context, employerID, candidateID, jobID int64) ([]*evaluation.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	open := make([]*evaluation.Record, 0)
	for _, r := range m.records {
		if r.EmployerID == employerID && r.CandidateID == candidateID && r.JobID == jobID && !r.CommentProvided {
			cp := *r
			open = append(open, &cp)
		}
	}
	sort.Slice(open, func(i, j int) bool { return open[i].PeriodStart.Before(open[j].PeriodStart) })
	return open, nil
}

func (m *memReminderRepo) byID(id int64) *evaluation.Record {
	for _, r := range m.records {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (m *memReminderRepo) SaveDeliveryState(_ context.Context, rec *evaluation.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	r := m.byID(rec.ID)
	if r == nil {
		return idb.ErrReminderRecordNotFound
	}
	if r.CommentProvided {
		return idb.ErrReminderAlreadyCompleted
	}
	r.NotificationSent = rec.NotificationSent
	r.NotificationSentAt = rec.NotificationSentAt
	r.ReminderCount = rec.ReminderCount
	r.LastReminderSent = rec.LastReminderSent
	m.saveCalls++
	return nil
}

func (m *memReminderRepo) SaveCompletion(_ context.Context, rec *evaluation.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	r := m.byID(rec.ID)
	if r == nil {
		return idb.ErrReminderRecordNotFound
	}
	if r.CommentProvided {
		return idb.ErrReminderAlreadyCompleted
	}
	r.CommentProvided = rec.CommentProvided
	r.CommentProvidedAt = rec.CommentProvidedAt
	m.saveCalls++
	return nil
}

func (m *memReminderRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

type gatewayCall struct {
	recipientID int64
	message     string
	link        string
	severity    notify.Severity
}

type fakeGateway struct {
	mu    sync.Mutex
	calls []gatewayCall
	err   error

	// onNotify, if set, runs once during the next delivery, before it is
	// recorded. Lets tests interleave other work with a send in flight.
	onNotify func()
}

func (f *fakeGateway) Notify(ctx context.Context, recipientID int64, message, link string, severity notify.Severity) error {
	if f.err != nil {
		return f.err
	}
	if hook := f.onNotify; hook != nil {
		f.onNotify = nil
		hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, gatewayCall{recipientID, message, link, severity})
	return nil
}

func (f *fakeGateway) callsBySeverity(sev notify.Severity) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.severity == sev {
			n++
		}
	}
	return n
}
