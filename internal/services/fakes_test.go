package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jobnest/backend/internal/models"
	"github.com/jobnest/backend/internal/utils"
)

// In-memory repository fakes. They guard their maps with a mutex and honor
// the same unique constraints the real schema enforces, so the conflict
// paths behave exactly like Postgres under concurrency.

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[string]*models.User
	companies map[string]*models.Company // keyed by user id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:     make(map[string]*models.User),
		companies: make(map[string]*models.Company),
	}
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) Exists(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	return ok && u.IsActive, nil
}

func (f *fakeUserRepo) GetCompanyByUserID(_ context.Context, userID string) (*models.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.companies[userID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

type fakeJobRepo struct {
	mu        sync.Mutex
	jobs      map[string]*models.Job
	companies map[string]*models.Company // keyed by company id
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{
		jobs:      make(map[string]*models.Job),
		companies: make(map[string]*models.Company),
	}
}

func (f *fakeJobRepo) GetByID(_ context.Context, id string) (*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (f *fakeJobRepo) OwnedBy(_ context.Context, jobID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[jobID]
	if !ok {
		return false, nil
	}
	c, ok := f.companies[j.CompanyID]
	return ok && c.UserID == userID, nil
}

func (f *fakeJobRepo) OwnerUserID(_ context.Context, jobID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[jobID]
	if !ok {
		return "", utils.ErrNotFound
	}
	c, ok := f.companies[j.CompanyID]
	if !ok {
		return "", utils.ErrNotFound
	}
	return c.UserID, nil
}

func (f *fakeJobRepo) List(_ context.Context, filter models.JobFilter) ([]models.Job, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []models.Job
	for _, j := range f.jobs {
		if filter.Status != "" && j.Status != filter.Status {
			continue
		}
		if filter.EmploymentType != "" && j.EmploymentType != filter.EmploymentType {
			continue
		}
		rows = append(rows, *j)
	}
	sort.Slice(rows, func(i, k int) bool { return rows[i].ID < rows[k].ID })
	return rows, int64(len(rows)), nil
}

type fakeCVRepo struct {
	mu  sync.Mutex
	cvs map[string]*models.CV
}

func newFakeCVRepo() *fakeCVRepo {
	return &fakeCVRepo{cvs: make(map[string]*models.CV)}
}

func (f *fakeCVRepo) GetByID(_ context.Context, id string) (*models.CV, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cv, ok := f.cvs[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *cv
	return &cp, nil
}

func (f *fakeCVRepo) ListByUser(_ context.Context, userID string) ([]models.CV, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []models.CV
	for _, cv := range f.cvs {
		if cv.UserID == userID {
			rows = append(rows, *cv)
		}
	}
	return rows, nil
}

type fakeNotificationRepo struct {
	mu    sync.Mutex
	rows  map[string]*models.Notification
	order []string
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{rows: make(map[string]*models.Notification)}
}

func (f *fakeNotificationRepo) Insert(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertLocked(n)
	return nil
}

func (f *fakeNotificationRepo) insertLocked(n *models.Notification) {
	cp := *n
	f.rows[n.ID] = &cp
	f.order = append(f.order, n.ID)
}

func (f *fakeNotificationRepo) GetByID(_ context.Context, id string) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID string, _, _ int) ([]models.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []models.Notification
	for _, id := range f.order {
		if n := f.rows[id]; n != nil && n.UserID == userID {
			rows = append(rows, *n)
		}
	}
	return rows, int64(len(rows)), nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.rows {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n, ok := f.rows[id]; ok && n.UserID == userID && !n.IsRead {
		n.IsRead = true
	}
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.rows {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) Delete(_ context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n, ok := f.rows[id]; ok && n.UserID == userID {
		delete(f.rows, id)
		return nil
	}
	return utils.ErrNotFound
}

func (f *fakeNotificationRepo) DeleteAllByUser(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for id, n := range f.rows {
		if n.UserID == userID {
			delete(f.rows, id)
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) forUser(userID string) []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []models.Notification
	for _, id := range f.order {
		if n := f.rows[id]; n != nil && n.UserID == userID {
			rows = append(rows, *n)
		}
	}
	return rows
}

type fakeApplicationRepo struct {
	mu     sync.Mutex
	apps   map[string]*models.Application
	pairs  map[string]string // cv_id:job_id -> application id
	notifs *fakeNotificationRepo

	createErr     error
	transitionErr error
}

func newFakeApplicationRepo(notifs *fakeNotificationRepo) *fakeApplicationRepo {
	return &fakeApplicationRepo{
		apps:   make(map[string]*models.Application),
		pairs:  make(map[string]string),
		notifs: notifs,
	}
}

func appPair(cvID, jobID string) string { return cvID + ":" + jobID }

func (f *fakeApplicationRepo) CreateWithNotifications(_ context.Context, app *models.Application, notifs []models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	key := appPair(app.CVID, app.JobID)
	if _, dup := f.pairs[key]; dup {
		return utils.ErrConflict
	}
	cp := *app
	f.apps[app.ID] = &cp
	f.pairs[key] = app.ID
	f.notifs.mu.Lock()
	for i := range notifs {
		f.notifs.insertLocked(&notifs[i])
	}
	f.notifs.mu.Unlock()
	return nil
}

func (f *fakeApplicationRepo) GetByID(_ context.Context, id string) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	app, ok := f.apps[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *app
	return &cp, nil
}

func (f *fakeApplicationRepo) Transition(_ context.Context, id string, from, to models.ApplicationStatus, feedback string, updatedAt time.Time, notif *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.transitionErr != nil {
		return f.transitionErr
	}
	app, ok := f.apps[id]
	if !ok || app.Status != from {
		return utils.ErrConflict
	}
	app.Status = to
	app.UpdatedDate = updatedAt
	if feedback != "" {
		app.Feedback = feedback
	}
	if notif != nil {
		f.notifs.mu.Lock()
		f.notifs.insertLocked(notif)
		f.notifs.mu.Unlock()
	}
	return nil
}

func (f *fakeApplicationRepo) ListByCandidate(_ context.Context, _ string, _ models.ApplicationStatus, _, _ int) ([]models.Application, int64, error) {
	return nil, 0, nil
}

func (f *fakeApplicationRepo) ListByCompany(_ context.Context, _ string, _ models.ApplicationStatus, _, _ int) ([]models.Application, int64, error) {
	return nil, 0, nil
}

type fakeInterviewRepo struct {
	mu    sync.Mutex
	byApp map[string]*models.Interview
}

func newFakeInterviewRepo() *fakeInterviewRepo {
	return &fakeInterviewRepo{byApp: make(map[string]*models.Interview)}
}

func (f *fakeInterviewRepo) GetByApplicationID(_ context.Context, applicationID string) (*models.Interview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	iv, ok := f.byApp[applicationID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *iv
	return &cp, nil
}

func (f *fakeInterviewRepo) Create(_ context.Context, iv *models.Interview) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, dup := f.byApp[iv.ApplicationID]; dup {
		return utils.ErrConflict
	}
	cp := *iv
	f.byApp[iv.ApplicationID] = &cp
	return nil
}

func (f *fakeInterviewRepo) ListByCompany(_ context.Context, _ string) ([]models.Interview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []models.Interview
	for _, iv := range f.byApp {
		rows = append(rows, *iv)
	}
	return rows, nil
}

type fakeConversationRepo struct {
	mu           sync.Mutex
	convos       map[string]*models.Conversation
	byPair       map[string]string // pair key -> conversation id
	participants map[string][]string
	messages     []models.Message

	insertMessageErr error
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{
		convos:       make(map[string]*models.Conversation),
		byPair:       make(map[string]string),
		participants: make(map[string][]string),
	}
}

func (f *fakeConversationRepo) GetByID(_ context.Context, id string) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.convos[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *conv
	return &cp, nil
}

func (f *fakeConversationRepo) FindByPairKey(_ context.Context, pairKey string) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byPair[pairKey]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *f.convos[id]
	return &cp, nil
}

func (f *fakeConversationRepo) CreateWithParticipants(_ context.Context, conv *models.Conversation, userA, userB *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, dup := f.byPair[conv.PairKey]; dup {
		return utils.ErrConflict
	}
	cp := *conv
	cp.Users = []models.User{*userA, *userB}
	f.convos[conv.ID] = &cp
	f.byPair[conv.PairKey] = conv.ID
	f.participants[conv.ID] = []string{userA.ID, userB.ID}
	return nil
}

func (f *fakeConversationRepo) ListForUser(_ context.Context, userID string) ([]models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []models.Conversation
	for id, ids := range f.participants {
		for _, pid := range ids {
			if pid == userID {
				rows = append(rows, *f.convos[id])
				break
			}
		}
	}
	return rows, nil
}

func (f *fakeConversationRepo) IsParticipant(_ context.Context, conversationID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, pid := range f.participants[conversationID] {
		if pid == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeConversationRepo) ParticipantIDs(_ context.Context, conversationID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.participants[conversationID]...), nil
}

func (f *fakeConversationRepo) InsertMessage(_ context.Context, msg *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertMessageErr != nil {
		return f.insertMessageErr
	}
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeConversationRepo) ListMessages(_ context.Context, conversationID string, limit int) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []models.Message
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			rows = append(rows, m)
		}
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}
	return rows, nil
}

// fakeCache records invalidations so tests can assert the unread-count
// cache is dropped on writes.
type fakeCache struct {
	mu      sync.Mutex
	data    map[string]any
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]any)}
}

func (f *fakeCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return false, nil
	}
	if p, ok := dst.(*int64); ok {
		*p = v.(int64)
	}
	return true, nil
}

func (f *fakeCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = val
	return nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
		f.deleted = append(f.deleted, k)
	}
	return nil
}
