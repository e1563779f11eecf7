package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	apperrors "github.com/frahmantamala/hr-admin/internal"
	"github.com/frahmantamala/hr-admin/internal/journal"
)

const (
	listDescription   = "Consultation de la liste des utilisateurs"
	deletedMessage    = "Utilisateur supprimé avec succès"
	passwordResetDone = "Mot de passe réinitialisé avec succès"
)

type Service struct {
	repo                RepositoryAPI
	tx                  TxRunner
	journal             *journal.Service
	credentials         CredentialService
	revealResetPassword bool
	logger              *slog.Logger
}

type Option func(*Service)

// WithRevealResetPassword controls whether ResetPassword returns the plaintext.
func WithRevealResetPassword(reveal bool) Option {
	return func(s *Service) { s.revealResetPassword = reveal }
}

func NewService(repo RepositoryAPI, tx TxRunner, journalService *journal.Service, credentials CredentialService, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		repo:                repo,
		tx:                  tx,
		journal:             journalService,
		credentials:         credentials,
		revealResetPassword: true,
		logger:              logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListUsers returns every user and journals the consultation when the dedup policy allows.
func (s *Service) ListUsers(ctx context.Context, actor journal.Actor) ([]UserResponse, error) {
	if _, err := s.journal.RecordIfNeeded(ctx, actor, journal.ActionConsultation, listDescription); err != nil {
		s.logger.WarnContext(ctx, "consultation not journaled", "user_id", actor.ID, "error", err)
	}

	users, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list users", "error", err)
		return nil, fmt.Errorf("list users: %w", err)
	}
	return toResponses(users), nil
}

func (s *Service) ListManagers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.GetByRole(ctx, RoleResponsable)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list managers", "error", err)
		return nil, fmt.Errorf("list managers: %w", err)
	}
	return toResponses(users), nil
}

// ListAll returns the full records, timestamps included.
func (s *Service) ListAll(ctx context.Context) ([]*User, error) {
	users, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list users", "error", err)
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []*User{}
	}
	return users, nil
}

// UpdateUser applies a partial profile edit and journals it in the same transaction.
func (s *Service) UpdateUser(ctx context.Context, actor journal.Actor, id int64, dto UpdateUserDTO) (*UserResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var updated *User
	err := s.tx.WithinTransaction(ctx, func(users RepositoryAPI, entries journal.RepositoryAPI) error {
		u, err := users.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if dto.Username != nil && *dto.Username != u.Username {
			other, err := users.GetByUsername(ctx, *dto.Username)
			switch {
			case err == nil && other.ID != u.ID:
				return apperrors.ErrUsernameTaken
			case err != nil && !errors.Is(err, apperrors.ErrUserNotFound):
				return err
			}
		}

		dto.Apply(u)
		if err := users.Update(ctx, u); err != nil {
			return err
		}

		description := "Modification de l'utilisateur : " + u.Nom + "." + u.Prenom
		if _, err := s.journal.WithRepository(entries).Record(ctx, actor, journal.ActionModification, description); err != nil {
			return err
		}

		updated = u
		return nil
	})
	if err != nil {
		s.logFailure(ctx, "update user", id, err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "user updated", "user_id", id, "actor_id", actor.ID)
	response := updated.ToResponse()
	return &response, nil
}

// DeleteUser hard-deletes a user; the lookup comes first so the entry can name them.
func (s *Service) DeleteUser(ctx context.Context, actor journal.Actor, id int64) (*MessageResponse, error) {
	err := s.tx.WithinTransaction(ctx, func(users RepositoryAPI, entries journal.RepositoryAPI) error {
		u, err := users.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := users.Delete(ctx, id); err != nil {
			return err
		}

		description := "Suppression de l'utilisateur : " + u.DisplayName()
		_, err = s.journal.WithRepository(entries).Record(ctx, actor, journal.ActionSuppression, description)
		return err
	})
	if err != nil {
		s.logFailure(ctx, "delete user", id, err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "user deleted", "user_id", id, "actor_id", actor.ID)
	return &MessageResponse{Message: deletedMessage}, nil
}

// ResetPassword stores a fresh random password for the target and journals the
// reset against the caller.
func (s *Service) ResetPassword(ctx context.Context, actor journal.Actor, id int64) (*ResetPasswordResponse, error) {
	var plaintext string
	err := s.tx.WithinTransaction(ctx, func(users RepositoryAPI, entries journal.RepositoryAPI) error {
		u, err := users.GetByID(ctx, id)
		if err != nil {
			return err
		}

		password, err := s.credentials.Generate()
		if err != nil {
			return err
		}
		hash, err := s.credentials.Hash(password)
		if err != nil {
			return err
		}
		if err := users.UpdatePasswordHash(ctx, id, hash); err != nil {
			return err
		}

		description := "Réinitialisation du mot de passe pour l'utilisateur: " + u.Username
		if _, err := s.journal.WithRepository(entries).Record(ctx, actor, journal.ActionPasswordReset, description); err != nil {
			return err
		}

		plaintext = password
		return nil
	})
	if err != nil {
		s.logFailure(ctx, "reset password", id, err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "password reset", "user_id", id, "actor_id", actor.ID)
	response := &ResetPasswordResponse{Message: passwordResetDone}
	if s.revealResetPassword {
		response.NewPassword = plaintext
	}
	return response, nil
}

func (s *Service) logFailure(ctx context.Context, op string, id int64, err error) {
	if appErr, ok := apperrors.IsAppError(err); ok && appErr.Type != apperrors.ErrorTypeInternal {
		s.logger.WarnContext(ctx, op+" rejected", "user_id", id, "code", appErr.Code)
		return
	}
	s.logger.ErrorContext(ctx, op+" failed", "user_id", id, "error", err)
}

func toResponses(users []*User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.ToResponse())
	}
	return responses
}
