package services

import (
	"context"
	"fmt"

	"github.com/SundayYogurt/bachelor-point/internal/domain"
	"github.com/SundayYogurt/bachelor-point/internal/dto"
	"github.com/SundayYogurt/bachelor-point/internal/helper"
	"github.com/SundayYogurt/bachelor-point/internal/repository"
	"go.uber.org/zap"
)

type ContactService interface {
	RevealContact(ctx context.Context, p domain.Principal, listingID uint) (dto.ContactResponse, error)
}

type contactService struct {
	accounts repository.AccountRepository
	listings repository.ListingRepository
	logger   *zap.Logger
}

func NewContactService(accounts repository.AccountRepository, listings repository.ListingRepository, logger *zap.Logger) ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &contactService{
		accounts: accounts,
		listings: listings,
		logger:   logger.Named("contact"),
	}
}

// RevealContact discloses the owner's name, email and student id to an
// approved requester whose gender matches the listing's.
func (s *contactService) RevealContact(ctx context.Context, p domain.Principal, listingID uint) (dto.ContactResponse, error) {
	requester, err := s.accounts.FindByStudentID(ctx, p.StudentID)
	if err != nil {
		return dto.ContactResponse{}, err
	}
	if requester.Status != domain.StatusApproved {
		return dto.ContactResponse{}, fmt.Errorf("%w: account is pending approval", domain.ErrForbidden)
	}

	listing, err := s.listings.FindListingByID(ctx, listingID)
	if err != nil {
		return dto.ContactResponse{}, err
	}

	if helper.NormalizeGender(requester.Gender) != helper.NormalizeGender(listing.Gender) {
		return dto.ContactResponse{}, fmt.Errorf("%w: listing is restricted to %s", domain.ErrForbidden, listing.Gender)
	}

	owner, err := s.accounts.FindByStudentID(ctx, listing.OwnerID)
	if err != nil {
		return dto.ContactResponse{}, err
	}

	s.logger.Debug("contact revealed", zap.Uint("listing", listingID), zap.String("requester", p.StudentID))
	return dto.ContactResponse{
		Name:      owner.Name,
		Email:     owner.Email,
		StudentID: owner.StudentID,
	}, nil
}
