package services

import (
	"context"

	"ripplegate/models"
	"ripplegate/monitoring"
	"ripplegate/services/platform"
)

// VerificationService checks a ticket's on-ledger ownership proof.
type VerificationService struct {
	platform *platform.Client
}

func NewVerificationService(pc *platform.Client) *VerificationService {
	return &VerificationService{platform: pc}
}

// Verify runs an ownership check for a confirmed, minted ticket.
// Ineligible tickets fail with ErrNotVerifiable before any network call.
// A backend error is a terminal, displayable outcome: it comes back as an
// unverified result with an advisory message, not as an error.
func (s *VerificationService) Verify(ctx context.Context, ticket models.Ticket) (*models.VerificationResult, error) {
	if !ticket.Verifiable() {
		monitoring.TrackVerification("ineligible")
		return nil, ErrNotVerifiable
	}

	result, err := s.platform.VerifyTicket(ctx, ticket.ID)
	if err != nil {
		monitoring.TrackVerification("error")
		return &models.VerificationResult{
			TicketID: ticket.ID,
			Verified: false,
			Message:  platform.ErrorMessage(err, "Verification request failed"),
			NFTID:    ticket.NFTID,
		}, nil
	}

	if result.Verified {
		monitoring.TrackVerification("verified")
	} else {
		monitoring.TrackVerification("unverified")
	}
	return result, nil
}
