package crm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type CRMService interface {
	CreateLead(ctx context.Context, lead *Lead) error
	GetLead(ctx context.Context, id string) (*Lead, error)
	ListLeads(ctx context.Context, limit, offset int64) ([]Lead, error)
	CreateClient(ctx context.Context, client *Client) error
	GetClient(ctx context.Context, id string) (*Client, error)
	ListClients(ctx context.Context, limit, offset int64) ([]Client, error)
	// ConvertLead creates a client from a lead and links it back via
	// original_lead_id so the comment synchronizer can backfill.
	ConvertLead(ctx context.Context, leadID string) (*Client, error)
}

type CRMServiceImpl struct {
	LeadRepo   LeadRepository
	ClientRepo ClientRepository
	Logger     *zap.Logger
}

func NewCRMService(leadRepo LeadRepository, clientRepo ClientRepository, logger *zap.Logger) CRMService {
	return &CRMServiceImpl{
		LeadRepo:   leadRepo,
		ClientRepo: clientRepo,
		Logger:     logger,
	}
}

func (s *CRMServiceImpl) CreateLead(ctx context.Context, lead *Lead) error {
	return s.LeadRepo.Create(ctx, lead)
}

func (s *CRMServiceImpl) GetLead(ctx context.Context, id string) (*Lead, error) {
	return s.LeadRepo.Get(ctx, id)
}

func (s *CRMServiceImpl) ListLeads(ctx context.Context, limit, offset int64) ([]Lead, error) {
	return s.LeadRepo.List(ctx, limit, offset)
}

func (s *CRMServiceImpl) CreateClient(ctx context.Context, client *Client) error {
	return s.ClientRepo.Create(ctx, client)
}

func (s *CRMServiceImpl) GetClient(ctx context.Context, id string) (*Client, error) {
	return s.ClientRepo.Get(ctx, id)
}

func (s *CRMServiceImpl) ListClients(ctx context.Context, limit, offset int64) ([]Client, error) {
	return s.ClientRepo.List(ctx, limit, offset)
}

func (s *CRMServiceImpl) ConvertLead(ctx context.Context, leadID string) (*Client, error) {
	lead, err := s.LeadRepo.Get(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("loading lead %s: %w", leadID, err)
	}
	if lead.Status == LeadStatusConverted {
		return nil, fmt.Errorf("lead %s is already converted", leadID)
	}

	client := &Client{
		Name:           lead.Name,
		Email:          lead.Email,
		Phone:          lead.Phone,
		OriginalLeadID: lead.ID.Hex(),
	}
	if err := s.ClientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("creating client from lead %s: %w", leadID, err)
	}

	if err := s.LeadRepo.UpdateStatus(ctx, leadID, LeadStatusConverted); err != nil {
		// The client exists; comment sync still works. Just record it.
		s.Logger.Warn("failed to mark lead converted",
			zap.String("entityType", "lead"),
			zap.String("entityId", leadID),
			zap.Error(err))
	}

	s.Logger.Info("lead converted to client",
		zap.String("entityType", "client"),
		zap.String("entityId", client.ID.Hex()),
		zap.String("leadId", leadID))
	return client, nil
}
