package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/hajuenter/usaha-backend/internal/core/domain"
	"github.com/hajuenter/usaha-backend/internal/repository"
)

const strongTestPassword = "Sup3r!SecurePass#7890"

type mockUserRepository struct {
	usersByEmail map[string]*domain.User

	createErr   error
	createCalls int
	createdUser domain.User

	getByEmailErr   error
	getByEmailCalls int
	lastLookupEmail string

	saveErr   error
	saveCalls int
	savedUser domain.User
}

func newMockUserRepository(users ...domain.User) *mockUserRepository {
	repo := &mockUserRepository{usersByEmail: make(map[string]*domain.User)}
	for i := range users {
		user := users[i]
		repo.usersByEmail[user.Email] = &user
	}
	return repo
}

func (m *mockUserRepository) Create(_ context.Context, user domain.User) error {
	m.createCalls++
	m.createdUser = user
	if m.createErr != nil {
		return m.createErr
	}
	stored := user
	m.usersByEmail[user.Email] = &stored
	return nil
}

func (m *mockUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, user := range m.usersByEmail {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.getByEmailCalls++
	m.lastLookupEmail = email
	if m.getByEmailErr != nil {
		return nil, m.getByEmailErr
	}
	user, ok := m.usersByEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserRepository) Save(_ context.Context, user domain.User) error {
	m.saveCalls++
	m.savedUser = user
	if m.saveErr != nil {
		return m.saveErr
	}
	stored := user
	m.usersByEmail[user.Email] = &stored
	return nil
}

func (m *mockUserRepository) stored(email string) *domain.User {
	return m.usersByEmail[email]
}

type mockMailer struct {
	sendErr     error
	sendCalls   int
	lastTo      string
	lastSubject string
	lastBody    string
}

func (m *mockMailer) Send(_ context.Context, to, subject, body string) error {
	m.sendCalls++
	m.lastTo = to
	m.lastSubject = subject
	m.lastBody = body
	return m.sendErr
}

type mockEventPublisher struct {
	registeredCalls int
	otpCalls        int
	changedCalls    int
	publishErr      error

	lastRegistered domain.UserRegisteredEvent
	lastOTP        domain.PasswordOTPRequestedEvent
	lastChanged    domain.PasswordChangedEvent
}

func (m *mockEventPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	m.registeredCalls++
	m.lastRegistered = event
	return m.publishErr
}

func (m *mockEventPublisher) PublishPasswordOTPRequested(_ context.Context, event domain.PasswordOTPRequestedEvent) error {
	m.otpCalls++
	m.lastOTP = event
	return m.publishErr
}

func (m *mockEventPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	m.changedCalls++
	m.lastChanged = event
	return m.publishErr
}

type mockProductRepository struct {
	productsByID map[string]*domain.Product

	createErr error
	getErr    error
	listErr   error
	updateErr error
	deleteErr error

	createCalls int
	updateCalls int
	deleteCalls int
}

func newMockProductRepository(products ...domain.Product) *mockProductRepository {
	repo := &mockProductRepository{productsByID: make(map[string]*domain.Product)}
	for i := range products {
		product := products[i]
		repo.productsByID[product.ID] = &product
	}
	return repo
}

func (m *mockProductRepository) Create(_ context.Context, product domain.Product) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	stored := product
	m.productsByID[product.ID] = &stored
	return nil
}

func (m *mockProductRepository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	product, ok := m.productsByID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *product
	return &copied, nil
}

func (m *mockProductRepository) List(_ context.Context, order domain.ProductSort) ([]domain.Product, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.Product, 0, len(m.productsByID))
	for _, product := range m.productsByID {
		out = append(out, *product)
	}
	sort.Slice(out, func(i, j int) bool {
		if order == domain.ProductSortOldest {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *mockProductRepository) Update(_ context.Context, product domain.Product) error {
	m.updateCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.productsByID[product.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := product
	m.productsByID[product.ID] = &stored
	return nil
}

func (m *mockProductRepository) Delete(_ context.Context, id string) error {
	m.deleteCalls++
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.productsByID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.productsByID, id)
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
