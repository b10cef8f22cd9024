package services

import (
	"context"
	"fmt"

	"github.com/Dias221467/Social_Network/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DirectoryLimit caps every directory listing.
const DirectoryLimit = 10

// DirectoryService lists and searches accounts.
type DirectoryService struct {
	users UserStore
}

func NewDirectoryService(users UserStore) *DirectoryService {
	return &DirectoryService{users: users}
}

// ListRecent returns up to DirectoryLimit accounts, newest first.
func (s *DirectoryService) ListRecent(ctx context.Context) ([]models.User, error) {
	users, err := s.users.ListRecent(ctx, DirectoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent users: %w", err)
	}
	return users, nil
}

// Search returns up to DirectoryLimit accounts whose username contains
// query, ignoring case.
func (s *DirectoryService) Search(ctx context.Context, query string) ([]models.UserSummary, error) {
	users, err := s.users.SearchByUsername(ctx, query, DirectoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

// LookupByUsername returns the ids of accounts named exactly username.
func (s *DirectoryService) LookupByUsername(ctx context.Context, username string) ([]primitive.ObjectID, error) {
	ids, err := s.users.FindIDsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return ids, nil
}
