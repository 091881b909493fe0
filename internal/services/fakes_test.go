package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"donorlink/internal/models"
	"donorlink/internal/repositories"
)

// Фейковые репозитории держат данные в памяти и имитируют
// поведение GORM-слоя (генерация id, sentinel-ошибки).

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) ExistsByID(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[id]
	return ok, nil
}

func (r *fakeUserRepo) UpdateRatingAggregate(userID string, role models.OfferRole, agg models.RatingAggregate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	if role == models.OfferRoleDonor {
		u.RatingAsDonor = agg
	} else {
		u.RatingAsRecipient = agg
	}
	return nil
}

type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[string]*models.DonationRequest
}

func newFakeRequestRepo(requests ...*models.DonationRequest) *fakeRequestRepo {
	r := &fakeRequestRepo{requests: make(map[string]*models.DonationRequest)}
	for _, req := range requests {
		if req.ID == "" {
			req.ID = uuid.NewString()
		}
		r.requests[req.ID] = req
	}
	return r
}

func (r *fakeRequestRepo) Create(request *models.DonationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	request.CreatedAt = time.Now()
	r.requests[request.ID] = request
	return nil
}

func (r *fakeRequestRepo) FindByID(id string) (*models.DonationRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, repositories.ErrRequestNotFound
	}
	copied := *req
	return &copied, nil
}

func (r *fakeRequestRepo) ListOpen(limit, offset int) ([]models.DonationRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var open []models.DonationRequest
	for _, req := range r.requests {
		if req.Status == models.RequestStatusOpen {
			open = append(open, *req)
		}
	}
	total := int64(len(open))
	if offset >= len(open) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(open) {
		end = len(open)
	}
	return open[offset:end], total, nil
}

func (r *fakeRequestRepo) UpdateStatus(id string, status models.RequestStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return repositories.ErrRequestNotFound
	}
	req.Status = status
	return nil
}

type fakeOfferRepo struct {
	mu     sync.Mutex
	offers map[string]*models.Offer
}

func newFakeOfferRepo() *fakeOfferRepo {
	return &fakeOfferRepo{offers: make(map[string]*models.Offer)}
}

func (r *fakeOfferRepo) Create(offer *models.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if offer.ID == "" {
		offer.ID = uuid.NewString()
	}
	offer.CreatedAt = time.Now()
	copied := *offer
	r.offers[offer.ID] = &copied
	return nil
}

func (r *fakeOfferRepo) FindByID(id string) (*models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[id]
	if !ok {
		return nil, repositories.ErrOfferNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *fakeOfferRepo) Save(offer *models.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[offer.ID]; !ok {
		return repositories.ErrOfferNotFound
	}
	copied := *offer
	r.offers[offer.ID] = &copied
	return nil
}

func (r *fakeOfferRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[id]; !ok {
		return repositories.ErrOfferNotFound
	}
	delete(r.offers, id)
	return nil
}

func (r *fakeOfferRepo) ListByRequest(requestID string) ([]models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Offer
	for _, o := range r.offers {
		if o.RequestID == requestID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOfferRepo) ListByDonor(donorID string) ([]models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Offer
	for _, o := range r.offers {
		if o.DonorID == donorID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOfferRepo) ListByRecipient(recipientID string) ([]models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Offer
	for _, o := range r.offers {
		if o.RecipientID == recipientID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOfferRepo) RatingAggregate(userID string, role models.OfferRole) (models.RatingAggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum, count int
	for _, o := range r.offers {
		switch role {
		case models.OfferRoleDonor:
			if o.DonorID == userID && o.RatingByDonor != nil && *o.RatingByDonor >= 1 {
				sum += *o.RatingByDonor
				count++
			}
		case models.OfferRoleRecipient:
			if o.RecipientID == userID && o.RatingByRecipient != nil && *o.RatingByRecipient >= 1 {
				sum += *o.RatingByRecipient
				count++
			}
		}
	}
	if count == 0 {
		return models.RatingAggregate{}, nil
	}
	return models.RatingAggregate{Avg: float64(sum) / float64(count), Count: count}, nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*models.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (r *fakeMessageRepo) Create(message *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	copied := *message
	r.messages = append(r.messages, &copied)
	return nil
}

func (r *fakeMessageRepo) FindByIdempotencyKey(senderID, recipientID, key string) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.SenderID == senderID && m.RecipientID == recipientID &&
			m.IdempotencyKey != nil && *m.IdempotencyKey == key {
			copied := *m
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeMessageRepo) History(userA, userB string, limit, offset int) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Message
	for _, m := range r.messages {
		if (m.SenderID == userA && m.RecipientID == userB) ||
			(m.SenderID == userB && m.RecipientID == userA) {
			out = append(out, *m)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (r *fakeMessageRepo) MarkRead(recipientID string, messageIDs []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make(map[string]struct{}, len(messageIDs))
	for _, id := range messageIDs {
		ids[id] = struct{}{}
	}
	var marked int64
	for _, m := range r.messages {
		if _, ok := ids[m.ID]; ok && m.RecipientID == recipientID && !m.IsRead {
			m.IsRead = true
			marked++
		}
	}
	return marked, nil
}

func (r *fakeMessageRepo) UnreadCount(recipientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, m := range r.messages {
		if m.RecipientID == recipientID && !m.IsRead {
			count++
		}
	}
	return count, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	notification.CreatedAt = time.Now()
	copied := *notification
	r.notifications = append(r.notifications, &copied)
	return nil
}

func (r *fakeNotificationRepo) FindByID(id string) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id {
			copied := *n
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) FindRecent(userID string, ntype models.NotificationType, referenceID string, since time.Time) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.notifications) - 1; i >= 0; i-- {
		n := r.notifications[i]
		if n.UserID == userID && n.Type == ntype && n.ReferenceID == referenceID && n.CreatedAt.After(since) {
			copied := *n
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeNotificationRepo) ListByUser(userID string, criteria repositories.NotificationCriteria) ([]models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if criteria.UnreadOnly && n.IsRead {
			continue
		}
		out = append(out, *n)
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) UnreadCount(userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id {
			now := time.Now()
			n.IsRead = true
			n.ReadAt = &now
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) MarkAllAsRead(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
		}
	}
	return nil
}

// fakePusher записывает отправленные события, чтобы тесты могли
// проверить fan-out без реальных соединений
type pushedEvent struct {
	UserID string
	Event  string
	Data   interface{}
}

type fakePusher struct {
	mu     sync.Mutex
	events []pushedEvent
	online map[string]bool
}

func newFakePusher(onlineUsers ...string) *fakePusher {
	online := make(map[string]bool)
	for _, id := range onlineUsers {
		online[id] = true
	}
	return &fakePusher{online: online}
}

func (p *fakePusher) SendToUser(userID string, event string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.online[userID] {
		return
	}
	p.events = append(p.events, pushedEvent{UserID: userID, Event: event, Data: data})
}

func (p *fakePusher) IsOnline(userID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online[userID]
}

func (p *fakePusher) eventsFor(userID, event string) []pushedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []pushedEvent
	for _, e := range p.events {
		if e.UserID == userID && e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

// fakeMarker - управляемый из теста маркер дедупликации
type fakeMarker struct {
	mu    sync.Mutex
	seen  map[string]time.Time
	clock func() time.Time
}

func newFakeMarker() *fakeMarker {
	return &fakeMarker{seen: make(map[string]time.Time), clock: time.Now}
}

func (m *fakeMarker) Key(recipientID, notificationType, referenceID string) string {
	return "notif:" + recipientID + ":" + notificationType + ":" + referenceID
}

func (m *fakeMarker) Acquire(_ context.Context, key string, window time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock()
	if expiry, ok := m.seen[key]; ok && now.Before(expiry) {
		return false, nil
	}
	m.seen[key] = now.Add(window)
	return true, nil
}
