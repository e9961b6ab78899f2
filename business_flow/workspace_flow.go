package businessflow

import (
	"context"

	"github.com/amirphl/concept-studio/app/dto"
	"github.com/amirphl/concept-studio/models"
	"github.com/amirphl/concept-studio/repository"
	"github.com/amirphl/concept-studio/utils"
	"golang.org/x/sync/errgroup"
)

// WorkspaceFlow loads everything the studio page renders
type WorkspaceFlow interface {
	LoadWorkspace(ctx context.Context) (*dto.WorkspaceResponse, error)
}

type WorkspaceFlowImpl struct {
	audienceRepo repository.AudienceRepository
	gateway      ConceptGateway
	logger       *utils.Logger
}

func NewWorkspaceFlow(audienceRepo repository.AudienceRepository, gateway ConceptGateway, logger *utils.Logger) WorkspaceFlow {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &WorkspaceFlowImpl{
		audienceRepo: audienceRepo,
		gateway:      gateway,
		logger:       logger.With("component", "workspace_flow"),
	}
}

// LoadWorkspace fetches audiences and concepts concurrently, each newest first
func (f *WorkspaceFlowImpl) LoadWorkspace(ctx context.Context) (*dto.WorkspaceResponse, error) {
	var (
		audiences []*models.Audience
		concepts  []*models.Concept
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := f.audienceRepo.ListLatest(gctx, 0, 0)
		if err != nil {
			return persistenceError(err)
		}
		audiences = rows
		return nil
	})
	g.Go(func() error {
		rows, err := f.gateway.ListConcepts(gctx)
		if err != nil {
			return err
		}
		concepts = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		f.logger.Error("Failed to load workspace", "error", err)
		return nil, NewBusinessError("WORKSPACE_LOAD_FAILED", "Failed to load workspace", err)
	}

	return &dto.WorkspaceResponse{
		Audiences: toAudienceDTOs(audiences),
		Concepts:  toConceptDTOs(concepts),
	}, nil
}
