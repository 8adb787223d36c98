package devbackend

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

type account struct {
	domain.User
	PasswordHash string
}

// store holds every record in memory. Slices are kept in insertion order so
// list endpoints are stable.
type store struct {
	mu           sync.RWMutex
	now          func() time.Time
	accounts     map[string]*account // by id
	emails       map[string]string   // lower(email) -> id
	projects     []domain.Project
	testimonials []domain.Testimonial
	contacts     []domain.Contact
}

func newStore(now func() time.Time) *store {
	return &store{
		now:      now,
		accounts: make(map[string]*account),
		emails:   make(map[string]string),
	}
}

func (s *store) createAccount(email, password, fullName string, role domain.Role) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(email)
	if _, exists := s.emails[key]; exists {
		return domain.User{}, domain.ErrUserExists
	}
	a := &account{
		User: domain.User{
			ID:        uuid.NewString(),
			Email:     email,
			FullName:  fullName,
			Role:      role,
			IsActive:  true,
			CreatedAt: s.now().UTC(),
		},
		PasswordHash: string(hash),
	}
	s.accounts[a.ID] = a
	s.emails[key] = a.ID
	return a.User, nil
}

// authenticate checks credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *store) authenticate(email, password string) (domain.User, error) {
	s.mu.RLock()
	id, ok := s.emails[strings.ToLower(email)]
	var a account
	if ok {
		a = *s.accounts[id]
	}
	s.mu.RUnlock()

	if !ok || bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	if !a.IsActive {
		return domain.User{}, domain.ErrForbidden
	}
	return a.User, nil
}

func (s *store) user(id string) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return domain.User{}, false
	}
	return a.User, true
}

func (s *store) users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a.User)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// updateAccount applies the non-nil fields. password is re-hashed when set.
func (s *store) updateAccount(id string, fullName, email *string, role *domain.Role, active *bool, password *string) (domain.User, error) {
	var hash []byte
	if password != nil {
		h, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			return domain.User{}, err
		}
		hash = h
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	if email != nil && !strings.EqualFold(*email, a.Email) {
		key := strings.ToLower(*email)
		if _, taken := s.emails[key]; taken {
			return domain.User{}, domain.ErrUserExists
		}
		delete(s.emails, strings.ToLower(a.Email))
		s.emails[key] = id
		a.Email = *email
	}
	if fullName != nil {
		a.FullName = *fullName
	}
	if role != nil {
		a.Role = *role
	}
	if active != nil {
		a.IsActive = *active
	}
	if hash != nil {
		a.PasswordHash = string(hash)
	}
	return a.User, nil
}

// ---- projects ----

func (s *store) listProjects() []domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Project(nil), s.projects...)
}

func (s *store) project(id string) (domain.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.projects {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Project{}, false
}

func (s *store) createProject(in domain.ProjectInput) domain.Project {
	now := s.now().UTC()
	p := projectFrom(in)
	p.ID = uuid.NewString()
	p.CreatedAt, p.UpdatedAt = now, now

	s.mu.Lock()
	s.projects = append(s.projects, p)
	s.mu.Unlock()
	return p
}

func (s *store) updateProject(id string, in domain.ProjectInput) (domain.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, old := range s.projects {
		if old.ID != id {
			continue
		}
		p := projectFrom(in)
		p.ID, p.CreatedAt, p.UpdatedAt = id, old.CreatedAt, s.now().UTC()
		s.projects[i] = p
		return p, true
	}
	return domain.Project{}, false
}

func (s *store) deleteProject(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.projects {
		if p.ID == id {
			s.projects = append(s.projects[:i:i], s.projects[i+1:]...)
			return true
		}
	}
	return false
}

func projectFrom(in domain.ProjectInput) domain.Project {
	return domain.Project{
		Title:        in.Title,
		Category:     in.Category,
		Image:        in.Image,
		Metric:       in.Metric,
		Description:  in.Description,
		Technologies: append([]string(nil), in.Technologies...),
		Results:      in.Results,
		Challenge:    in.Challenge,
		Solution:     in.Solution,
		Outcome:      in.Outcome,
	}
}

// ---- testimonials ----

func (s *store) listTestimonials() []domain.Testimonial {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Testimonial(nil), s.testimonials...)
}

func (s *store) testimonial(id string) (domain.Testimonial, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.testimonials {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Testimonial{}, false
}

func (s *store) createTestimonial(in domain.TestimonialInput) domain.Testimonial {
	now := s.now().UTC()
	t := testimonialFrom(in)
	t.ID = uuid.NewString()
	t.CreatedAt, t.UpdatedAt = now, now

	s.mu.Lock()
	s.testimonials = append(s.testimonials, t)
	s.mu.Unlock()
	return t
}

func (s *store) updateTestimonial(id string, in domain.TestimonialInput) (domain.Testimonial, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, old := range s.testimonials {
		if old.ID != id {
			continue
		}
		t := testimonialFrom(in)
		t.ID, t.CreatedAt, t.UpdatedAt = id, old.CreatedAt, s.now().UTC()
		s.testimonials[i] = t
		return t, true
	}
	return domain.Testimonial{}, false
}

func (s *store) deleteTestimonial(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.testimonials {
		if t.ID == id {
			s.testimonials = append(s.testimonials[:i:i], s.testimonials[i+1:]...)
			return true
		}
	}
	return false
}

func testimonialFrom(in domain.TestimonialInput) domain.Testimonial {
	return domain.Testimonial{
		Name:     in.Name,
		Position: in.Position,
		Company:  in.Company,
		Avatar:   in.Avatar,
		Quote:    in.Quote,
		Rating:   in.Rating,
		Project:  in.Project,
	}
}

func (s *store) createContact(in domain.ContactInput) domain.Contact {
	c := domain.Contact{
		ID:              uuid.NewString(),
		Name:            in.Name,
		Email:           in.Email,
		Company:         in.Company,
		Phone:           in.Phone,
		Message:         in.Message,
		ServiceInterest: append([]string{}, in.ServiceInterest...),
		Status:          domain.ContactStatusNew,
		CreatedAt:       s.now().UTC(),
	}
	s.mu.Lock()
	s.contacts = append(s.contacts, c)
	s.mu.Unlock()
	return c
}

func (s *store) listContacts() []domain.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Contact{}, s.contacts...)
}
