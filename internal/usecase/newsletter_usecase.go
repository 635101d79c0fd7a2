package usecase

import (
	"fmt"
	"time"

	"metalya/internal/entity"
	"metalya/internal/policy"
	"metalya/internal/repo/persistent"
	"metalya/pkg/logger"
	"metalya/pkg/mailer"
	"metalya/pkg/markdown"
)

const (
	// One provider call covers up to blastBatchSize recipients; batches are
	// spaced by blastBatchDelay to stay under the SMTP relay's rate limits.
	blastBatchSize  = 50
	blastBatchDelay = 500 * time.Millisecond
)

// BlastResult reports a finished blast: how many recipients were in batches
// that the provider accepted, out of the total active subscriber count.
type BlastResult struct {
	Sent  int `json:"sent"`
	Total int `json:"total"`
}

type NewsletterUseCase interface {
	Subscribe(email string) (*entity.Subscriber, error)
	Unsubscribe(email string) error
	ListSubscribers(callerRole entity.UserRole) ([]*entity.Subscriber, error)

	CreateCampaign(authorID string, callerRole entity.UserRole, subject, content string) (*entity.Newsletter, error)
	GetCampaign(campaignID, callerID string, callerRole entity.UserRole) (*entity.Newsletter, error)
	ListCampaigns(callerRole entity.UserRole, limit, offset int) ([]*entity.Newsletter, error)
	UpdateCampaign(campaignID, callerID string, callerRole entity.UserRole, subject, content *string) (*entity.Newsletter, error)
	DeleteCampaign(campaignID, callerID string, callerRole entity.UserRole) error

	SendCampaign(campaignID, callerID string, callerRole entity.UserRole) (*BlastResult, error)
	Blast(callerRole entity.UserRole, subject, content string) (*BlastResult, error)
}

type newsletterUseCase struct {
	newsletterRepo persistent.NewsletterRepository
	subscriberRepo persistent.SubscriberRepository
	mailer         mailer.Mailer
	renderer       *markdown.Renderer
	logger         *logger.Logger
	mailFrom       string
	visibleTo      string

	// Injectable for tests; production uses time.Sleep.
	sleep func(time.Duration)
}

func NewNewsletterUseCase(
	newsletterRepo persistent.NewsletterRepository,
	subscriberRepo persistent.SubscriberRepository,
	m mailer.Mailer,
	renderer *markdown.Renderer,
	logger *logger.Logger,
	mailFrom, visibleTo string,
) NewsletterUseCase {
	return &newsletterUseCase{
		newsletterRepo: newsletterRepo,
		subscriberRepo: subscriberRepo,
		mailer:         m,
		renderer:       renderer,
		logger:         logger,
		mailFrom:       mailFrom,
		visibleTo:      visibleTo,
		sleep:          time.Sleep,
	}
}

func (uc *newsletterUseCase) Subscribe(email string) (*entity.Subscriber, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	subscriber, err := uc.subscriberRepo.Upsert(email)
	if err != nil {
		uc.logger.Error("Failed to subscribe %s: %v", email, err)
		return nil, fmt.Errorf("failed to subscribe")
	}
	return subscriber, nil
}

func (uc *newsletterUseCase) Unsubscribe(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	return uc.subscriberRepo.Deactivate(email)
}

func (uc *newsletterUseCase) ListSubscribers(callerRole entity.UserRole) ([]*entity.Subscriber, error) {
	if !policy.CanSendBlast(callerRole) {
		return nil, ErrPermissionDenied
	}
	return uc.subscriberRepo.ListActive()
}

func (uc *newsletterUseCase) CreateCampaign(authorID string, callerRole entity.UserRole, subject, content string) (*entity.Newsletter, error) {
	if !policy.CanSendBlast(callerRole) {
		return nil, ErrPermissionDenied
	}
	if subject == "" || content == "" {
		return nil, fmt.Errorf("%w: subject and content are required", ErrValidation)
	}

	campaign := &entity.Newsletter{
		Subject:  subject,
		Content:  content,
		Status:   entity.NewsletterDraft,
		AuthorID: authorID,
	}
	if err := uc.newsletterRepo.Create(campaign); err != nil {
		uc.logger.Error("Failed to create campaign: %v", err)
		return nil, fmt.Errorf("failed to create campaign")
	}
	return campaign, nil
}

// GetCampaign opens a campaign as an editable draft. SENT campaigns stay
// listable but are closed here.
func (uc *newsletterUseCase) GetCampaign(campaignID, callerID string, callerRole entity.UserRole) (*entity.Newsletter, error) {
	return uc.fetchEditable(campaignID, callerID, callerRole)
}

func (uc *newsletterUseCase) ListCampaigns(callerRole entity.UserRole, limit, offset int) ([]*entity.Newsletter, error) {
	if !policy.CanSendBlast(callerRole) {
		return nil, ErrPermissionDenied
	}
	return uc.newsletterRepo.List(limit, offset)
}

func (uc *newsletterUseCase) UpdateCampaign(campaignID, callerID string, callerRole entity.UserRole, subject, content *string) (*entity.Newsletter, error) {
	campaign, err := uc.fetchEditable(campaignID, callerID, callerRole)
	if err != nil {
		return nil, err
	}

	if subject != nil {
		if *subject == "" {
			return nil, fmt.Errorf("%w: subject cannot be empty", ErrValidation)
		}
		campaign.Subject = *subject
	}
	if content != nil {
		if *content == "" {
			return nil, fmt.Errorf("%w: content cannot be empty", ErrValidation)
		}
		campaign.Content = *content
	}

	if err := uc.newsletterRepo.Update(campaign); err != nil {
		uc.logger.Error("Failed to update campaign %s: %v", campaignID, err)
		return nil, fmt.Errorf("failed to update campaign")
	}
	return campaign, nil
}

func (uc *newsletterUseCase) DeleteCampaign(campaignID, callerID string, callerRole entity.UserRole) error {
	if _, err := uc.fetchEditable(campaignID, callerID, callerRole); err != nil {
		return err
	}
	return uc.newsletterRepo.Delete(campaignID)
}

func (uc *newsletterUseCase) fetchEditable(campaignID, callerID string, callerRole entity.UserRole) (*entity.Newsletter, error) {
	campaign, err := uc.newsletterRepo.GetByID(campaignID)
	if err != nil {
		return nil, ErrNotFound
	}
	if campaign.Status == entity.NewsletterSent {
		return nil, ErrCampaignSent
	}
	if !policy.CanAccessCampaign(callerRole, campaign.AuthorID == callerID, campaign.Status) {
		return nil, ErrPermissionDenied
	}
	return campaign, nil
}

// SendCampaign blasts a stored campaign and marks it SENT on completion.
// The PENDING status covers the send window itself.
func (uc *newsletterUseCase) SendCampaign(campaignID, callerID string, callerRole entity.UserRole) (*BlastResult, error) {
	campaign, err := uc.fetchEditable(campaignID, callerID, callerRole)
	if err != nil {
		return nil, err
	}

	campaign.Status = entity.NewsletterPending
	if err := uc.newsletterRepo.Update(campaign); err != nil {
		uc.logger.Error("Failed to update campaign %s: %v", campaignID, err)
		return nil, fmt.Errorf("failed to update campaign")
	}

	result, err := uc.Blast(callerRole, campaign.Subject, campaign.Content)
	if err != nil {
		// Roll the status back so the draft stays editable.
		campaign.Status = entity.NewsletterDraft
		if rbErr := uc.newsletterRepo.Update(campaign); rbErr != nil {
			uc.logger.Error("Failed to roll back campaign %s: %v", campaignID, rbErr)
		}
		return nil, err
	}

	campaign.Status = entity.NewsletterSent
	if err := uc.newsletterRepo.Update(campaign); err != nil {
		uc.logger.Error("Failed to mark campaign %s sent: %v", campaignID, err)
	}
	return result, nil
}

// Blast renders the content once and sends it to every active subscriber in
// batches. Subscriber addresses ride in Bcc; the visible To is the list's
// own address. A failed batch is logged and skipped, the rest still go out.
func (uc *newsletterUseCase) Blast(callerRole entity.UserRole, subject, content string) (*BlastResult, error) {
	if !policy.CanSendBlast(callerRole) {
		return nil, ErrPermissionDenied
	}
	if subject == "" || content == "" {
		return nil, fmt.Errorf("%w: subject and content are required", ErrValidation)
	}

	subscribers, err := uc.subscriberRepo.ListActive()
	if err != nil {
		uc.logger.Error("Failed to list subscribers: %v", err)
		return nil, fmt.Errorf("failed to list subscribers")
	}
	if len(subscribers) == 0 {
		return nil, ErrNoSubscribers
	}

	html, err := uc.renderer.Render(content)
	if err != nil {
		uc.logger.Error("Failed to render newsletter: %v", err)
		return nil, fmt.Errorf("failed to render newsletter")
	}

	emails := make([]string, len(subscribers))
	for i, s := range subscribers {
		emails[i] = s.Email
	}

	batches := partition(emails, blastBatchSize)
	sent := 0
	for i, batch := range batches {
		if i > 0 {
			uc.sleep(blastBatchDelay)
		}
		err := uc.mailer.Send(&mailer.Email{
			From:    uc.mailFrom,
			To:      uc.visibleTo,
			Bcc:     batch,
			Subject: subject,
			HTML:    html,
		})
		if err != nil {
			uc.logger.Error("Newsletter batch %d/%d failed (%d recipients): %v", i+1, len(batches), len(batch), err)
			continue
		}
		sent += len(batch)
	}

	uc.logger.Info("Newsletter blast done: %d/%d recipients in %d batches", sent, len(emails), len(batches))
	return &BlastResult{Sent: sent, Total: len(emails)}, nil
}

func partition(items []string, size int) [][]string {
	var batches [][]string
	for size < len(items) {
		items, batches = items[size:], append(batches, items[:size:size])
	}
	return append(batches, items)
}
