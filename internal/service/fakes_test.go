package service

import (
	"context"
	"fmt"

	"github.com/shopsetu/checklist/internal/model"
	"github.com/shopsetu/checklist/internal/repository"
	"github.com/shopsetu/checklist/internal/storage"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users  map[uint]*model.User
	nextID uint
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint]*model.User), nextID: 1}
	for _, u := range users {
		if u.ID == 0 {
			u.ID = r.nextID
		}
		if u.ID >= r.nextID {
			r.nextID = u.ID + 1
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(user *model.User) error {
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(id uint) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByMobile(mobile string) (*model.User, error) {
	for _, u := range r.users {
		if u.Mobile == mobile {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Save(user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(id uint) error {
	delete(r.users, id)
	return nil
}

type fakeSubmissionRepo struct {
	submissions map[uint]*model.Submission
	nextID      uint
	createErr   error
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{submissions: make(map[uint]*model.Submission), nextID: 1}
}

func (r *fakeSubmissionRepo) Create(submission *model.Submission) error {
	if r.createErr != nil {
		return r.createErr
	}
	submission.ID = r.nextID
	r.nextID++
	stored := *submission
	r.submissions[stored.ID] = &stored
	return nil
}

func (r *fakeSubmissionRepo) FindByIDWithResponses(id uint) (*model.Submission, error) {
	if s, ok := r.submissions[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSubmissionRepo) FindAll(filter repository.SubmissionFilter) ([]model.Submission, error) {
	var out []model.Submission
	for _, s := range r.submissions {
		if filter.FormID != "" && s.FormID != filter.FormID {
			continue
		}
		if filter.Language != "" && s.Language != filter.Language {
			continue
		}
		if filter.UserID != nil && s.UserID != *filter.UserID {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeSubmissionRepo) FindAllByUser(userID uint) ([]model.Submission, error) {
	var out []model.Submission
	for _, s := range r.submissions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) Update(submission *model.Submission, responses []model.AnswerRecord) error {
	if responses != nil {
		submission.Responses = responses
	}
	stored := *submission
	r.submissions[submission.ID] = &stored
	return nil
}

func (r *fakeSubmissionRepo) Delete(id uint) error {
	delete(r.submissions, id)
	return nil
}

func (r *fakeSubmissionRepo) DeleteAllByUser(userID uint) error {
	for id, s := range r.submissions {
		if s.UserID == userID {
			delete(r.submissions, id)
		}
	}
	return nil
}

// fakeMediaStorage records uploads/deletes and can be told to fail for
// specific payloads or URLs.
type fakeMediaStorage struct {
	uploads      []string // folders, in call order
	uploadedURLs []string
	deletes      []string // URLs, in call order
	failUploads  map[string]bool // keyed by payload content
	failDeletes  map[string]bool // keyed by URL
	counter      int
}

func newFakeMediaStorage() *fakeMediaStorage {
	return &fakeMediaStorage{failUploads: make(map[string]bool), failDeletes: make(map[string]bool)}
}

func (s *fakeMediaStorage) Upload(ctx context.Context, data []byte, contentType string, folder string) (string, error) {
	if s.failUploads[string(data)] {
		return "", fmt.Errorf("simulated upload failure")
	}
	s.counter++
	url := fmt.Sprintf("https://media.test/checklist/%s/obj-%d", folder, s.counter)
	s.uploads = append(s.uploads, folder)
	s.uploadedURLs = append(s.uploadedURLs, url)
	return url, nil
}

func (s *fakeMediaStorage) Delete(ctx context.Context, rawURL string, kind storage.Kind) error {
	s.deletes = append(s.deletes, rawURL)
	if s.failDeletes[rawURL] {
		return fmt.Errorf("simulated delete failure")
	}
	return nil
}
