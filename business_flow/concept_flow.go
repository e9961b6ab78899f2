package businessflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amirphl/concept-studio/app/dto"
	"github.com/amirphl/concept-studio/app/services"
	"github.com/amirphl/concept-studio/models"
	"github.com/amirphl/concept-studio/utils"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ConceptFlow coordinates concept creation, remixing and deletion across the
// generator and the persistence gateway
type ConceptFlow interface {
	CreateConcept(ctx context.Context, req *dto.CreateConceptRequest) (*dto.ConceptResponse, error)
	RemixConcept(ctx context.Context, req *dto.RemixConceptRequest) (*dto.RemixConceptResponse, error)
	DeleteConcept(ctx context.Context, id string) (*dto.DeleteConceptResponse, error)
	GenerateConcept(ctx context.Context, req *dto.GenerateConceptRequest) (*dto.GenerateConceptResponse, error)
	ListConcepts(ctx context.Context) (*dto.ListConceptsResponse, error)
	GetConcept(ctx context.Context, id string) (*dto.ConceptResponse, error)
	ListLineage(ctx context.Context, id string) (*dto.ConceptLineageResponse, error)
	ExportConcepts(ctx context.Context) (string, []byte, error)
}

// ConceptFlowImpl implements the concept lifecycle
type ConceptFlowImpl struct {
	gateway   ConceptGateway
	generator services.ConceptGenerator
	locker    ConceptLocker
	logger    *utils.Logger
}

// NewConceptFlow creates a new concept flow instance. A nil locker falls back to an in-process one.
func NewConceptFlow(
	gateway ConceptGateway,
	generator services.ConceptGenerator,
	locker ConceptLocker,
	logger *utils.Logger,
) ConceptFlow {
	if locker == nil {
		locker = NewLocalConceptLocker()
	}
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &ConceptFlowImpl{
		gateway:   gateway,
		generator: generator,
		locker:    locker,
		logger:    logger.With("component", "concept_flow"),
	}
}

// CreateConcept generates a root concept for an audience and stores it
func (f *ConceptFlowImpl) CreateConcept(ctx context.Context, req *dto.CreateConceptRequest) (*dto.ConceptResponse, error) {
	audienceID, err := parseID(req.AudienceID)
	if err != nil {
		return nil, NewBusinessError("CONCEPT_VALIDATION_FAILED", "Invalid audience id", err)
	}

	// 1. Fetch the audience
	audience, err := f.gateway.FetchAudience(ctx, audienceID)
	if err != nil {
		return nil, f.fail("create", "CONCEPT_CREATE_FAILED", "Failed to create concept", err, "audience_id", audienceID)
	}

	// 2. Generate fresh content
	generated, err := f.generator.Generate(ctx, ToGenerationAudience(*audience), nil)
	if err != nil {
		return nil, f.fail("create", "CONCEPT_GENERATION_FAILED", "Failed to generate concept", err, "audience_id", audienceID)
	}

	// 3. Persist as a root concept
	concept, err := f.gateway.InsertConcept(ctx, audience.ID, generated.Title, generated.Description, nil)
	if err != nil {
		return nil, f.fail("create", "CONCEPT_CREATE_FAILED", "Failed to save concept", err, "audience_id", audienceID)
	}

	f.logger.Info("Concept created", "concept_id", concept.ID, "audience_id", audienceID)

	resp := ToConceptDTO(*concept)
	return &resp, nil
}

// RemixConcept regenerates a concept from its source. BRANCH stores a new child;
// OVERWRITE replaces the source's title and description and leaves its parent pointer alone.
func (f *ConceptFlowImpl) RemixConcept(ctx context.Context, req *dto.RemixConceptRequest) (*dto.RemixConceptResponse, error) {
	conceptID, err := parseID(req.ConceptID)
	if err != nil {
		return nil, NewBusinessError("CONCEPT_VALIDATION_FAILED", "Invalid concept id", err)
	}

	policy, err := models.ParseRemixPolicy(req.Policy)
	if err != nil {
		return nil, NewBusinessError("INVALID_REMIX_POLICY", "Remix policy must be BRANCH or OVERWRITE",
			fmt.Errorf("%w: %w: %w", ErrValidation, ErrInvalidRemixPolicy, err))
	}

	var expected *time.Time
	if req.ExpectedUpdatedAt != nil {
		expected, err = utils.ParseTimestampPtr(*req.ExpectedUpdatedAt)
		if err != nil {
			return nil, NewBusinessError("CONCEPT_VALIDATION_FAILED", "Invalid expected_updated_at",
				validationError("expected_updated_at: %v", err))
		}
	}

	release, err := f.locker.Acquire(ctx, conceptID, "remix")
	if err != nil {
		return nil, f.fail("remix", "CONCEPT_BUSY", "Concept is being modified", err, "concept_id", conceptID)
	}
	defer release()

	// 1. Read the source with its audience
	source, err := f.gateway.GetConcept(ctx, conceptID)
	if err != nil {
		return nil, f.fail("remix", "CONCEPT_REMIX_FAILED", "Failed to load concept", err, "concept_id", conceptID)
	}

	// 2. The audience must still exist to build the prompt
	if source.Audience == nil {
		return nil, f.fail("remix", "CONCEPT_REMIX_FAILED", "Concept audience no longer exists", ErrAudienceNotFound,
			"concept_id", conceptID, "audience_id", source.AudienceID)
	}

	if policy == models.RemixPolicyOverwrite {
		if expected != nil && !expected.Equal(source.UpdatedAt) {
			return nil, f.fail("remix", "CONCEPT_MODIFIED", "Concept was modified since it was read", ErrConceptModified,
				"concept_id", conceptID)
		}
		if expected == nil {
			expected = utils.ToPtr(source.UpdatedAt)
		}
	}

	// 3. Generate remix content
	generated, err := f.generator.Generate(ctx, ToGenerationAudience(*source.Audience), &services.ParentConcept{
		Title:       source.Title,
		Description: source.Description,
	})
	if err != nil {
		return nil, f.fail("remix", "CONCEPT_GENERATION_FAILED", "Failed to generate concept", err, "concept_id", conceptID)
	}

	// 4. Apply the policy
	var (
		result  *models.Concept
		created bool
	)
	switch policy {
	case models.RemixPolicyBranch:
		result, err = f.gateway.InsertConcept(ctx, source.AudienceID, generated.Title, generated.Description, &source.ID)
		created = true
	case models.RemixPolicyOverwrite:
		result, err = f.gateway.UpdateConceptContent(ctx, source.ID, generated.Title, generated.Description, expected)
	}
	if err != nil {
		return nil, f.fail("remix", "CONCEPT_REMIX_FAILED", "Failed to save remixed concept", err,
			"concept_id", conceptID, "policy", policy.String())
	}

	f.logger.Info("Concept remixed", "concept_id", conceptID, "result_id", result.ID, "policy", policy.String())

	return &dto.RemixConceptResponse{
		Policy:  policy.String(),
		Created: created,
		Concept: ToConceptDTO(*result),
	}, nil
}

// DeleteConcept removes a concept. Deleting a missing concept succeeds.
func (f *ConceptFlowImpl) DeleteConcept(ctx context.Context, id string) (*dto.DeleteConceptResponse, error) {
	conceptID, err := parseID(id)
	if err != nil {
		return nil, NewBusinessError("CONCEPT_VALIDATION_FAILED", "Invalid concept id", err)
	}

	release, err := f.locker.Acquire(ctx, conceptID, "delete")
	if err != nil {
		return nil, f.fail("delete", "CONCEPT_BUSY", "Concept is being modified", err, "concept_id", conceptID)
	}
	defer release()

	if err := f.gateway.DeleteConcept(ctx, conceptID); err != nil {
		return nil, f.fail("delete", "CONCEPT_DELETE_FAILED", "Failed to delete concept", err, "concept_id", conceptID)
	}

	return &dto.DeleteConceptResponse{
		Message: "Concept deleted successfully",
		ID:      conceptID.String(),
	}, nil
}

// GenerateConcept runs the generator on caller-supplied context without persisting anything
func (f *ConceptFlowImpl) GenerateConcept(ctx context.Context, req *dto.GenerateConceptRequest) (*dto.GenerateConceptResponse, error) {
	if req == nil || req.Audience == nil {
		return nil, NewBusinessError("GENERATION_VALIDATION_FAILED", "Audience is required", validationError("audience is required"))
	}

	audience := services.GenerationAudience{
		Name:        strings.TrimSpace(req.Audience.Name),
		AgeRange:    req.Audience.AgeRange,
		Gender:      req.Audience.Gender,
		Location:    strings.TrimSpace(req.Audience.Location),
		Interests:   req.Audience.Interests,
		IncomeLevel: req.Audience.IncomeLevel,
	}

	var parent *services.ParentConcept
	if req.ParentConcept != nil {
		parent = &services.ParentConcept{
			Title:       req.ParentConcept.Title,
			Description: req.ParentConcept.Description,
		}
	}

	generated, err := f.generator.Generate(ctx, audience, parent)
	if err != nil {
		return nil, f.fail("generate", "CONCEPT_GENERATION_FAILED", "Failed to generate concept", err, "audience", audience.Name)
	}

	return &dto.GenerateConceptResponse{
		Title:       generated.Title,
		Description: generated.Description,
	}, nil
}

// ListConcepts returns every concept newest first
func (f *ConceptFlowImpl) ListConcepts(ctx context.Context) (*dto.ListConceptsResponse, error) {
	rows, err := f.gateway.ListConcepts(ctx)
	if err != nil {
		return nil, f.fail("list", "CONCEPT_LIST_FAILED", "Failed to list concepts", err)
	}

	items := toConceptDTOs(rows)
	return &dto.ListConceptsResponse{
		Concepts: items,
		Total:    len(items),
	}, nil
}

func (f *ConceptFlowImpl) GetConcept(ctx context.Context, id string) (*dto.ConceptResponse, error) {
	conceptID, err := parseID(id)
	if err != nil {
		return nil, NewBusinessError("CONCEPT_VALIDATION_FAILED", "Invalid concept id", err)
	}

	concept, err := f.gateway.GetConcept(ctx, conceptID)
	if err != nil {
		if IsConceptNotFound(err) {
			return nil, NewBusinessError("CONCEPT_NOT_FOUND", "Concept not found", err)
		}
		return nil, f.fail("get", "CONCEPT_FETCH_FAILED", "Failed to fetch concept", err, "concept_id", conceptID)
	}

	resp := ToConceptDTO(*concept)
	return &resp, nil
}

// ListLineage walks parent pointers from a concept up to its root. The first
// element is the concept itself. A deleted ancestor ends the walk.
func (f *ConceptFlowImpl) ListLineage(ctx context.Context, id string) (*dto.ConceptLineageResponse, error) {
	conceptID, err := parseID(id)
	if err != nil {
		return nil, NewBusinessError("CONCEPT_VALIDATION_FAILED", "Invalid concept id", err)
	}

	current, err := f.gateway.GetConcept(ctx, conceptID)
	if err != nil {
		if IsConceptNotFound(err) {
			return nil, NewBusinessError("CONCEPT_NOT_FOUND", "Concept not found", err)
		}
		return nil, f.fail("lineage", "CONCEPT_LINEAGE_FAILED", "Failed to load concept lineage", err, "concept_id", conceptID)
	}

	lineage := []dto.ConceptResponse{ToConceptDTO(*current)}
	visited := map[uuid.UUID]bool{current.ID: true}
	for current.ParentConceptID != nil && !visited[*current.ParentConceptID] {
		parentID := *current.ParentConceptID
		visited[parentID] = true

		parent, err := f.gateway.GetConcept(ctx, parentID)
		if err != nil {
			if IsConceptNotFound(err) {
				break
			}
			return nil, f.fail("lineage", "CONCEPT_LINEAGE_FAILED", "Failed to load concept lineage", err, "concept_id", parentID)
		}
		lineage = append(lineage, ToConceptDTO(*parent))
		current = parent
	}

	return &dto.ConceptLineageResponse{
		ConceptID: conceptID.String(),
		Lineage:   lineage,
		Depth:     len(lineage) - 1,
	}, nil
}

var conceptExportHeader = []string{"id", "title", "description", "audience_name", "parent_concept_id", "state", "created_at"}

// ExportConcepts builds a workbook with every concept on the first sheet and one sheet per audience
func (f *ConceptFlowImpl) ExportConcepts(ctx context.Context) (string, []byte, error) {
	rows, err := f.gateway.ListConcepts(ctx)
	if err != nil {
		return "", nil, f.fail("export", "CONCEPT_EXPORT_FAILED", "Failed to fetch concepts", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	const allSheet = "concepts"
	xl.SetSheetName(xl.GetSheetName(0), allSheet)
	writeConceptSheet(xl, allSheet, rows)

	// Group by audience, keeping the newest-first order of first appearance
	byAudience := make(map[uuid.UUID][]*models.Concept)
	nameByAudience := make(map[uuid.UUID]string)
	order := make([]uuid.UUID, 0)
	for _, c := range rows {
		if _, ok := byAudience[c.AudienceID]; !ok {
			name := "audience_" + c.AudienceID.String()[:8]
			if c.Audience != nil && strings.TrimSpace(c.Audience.Name) != "" {
				name = c.Audience.Name
			}
			nameByAudience[c.AudienceID] = name
			order = append(order, c.AudienceID)
		}
		byAudience[c.AudienceID] = append(byAudience[c.AudienceID], c)
	}

	// Sheet names are compared case-insensitively by Excel
	usedNames := map[string]bool{allSheet: true}
	for _, aid := range order {
		baseName := sanitizeSheetName(nameByAudience[aid])
		name := baseName
		idx := 1
		for usedNames[strings.ToLower(name)] {
			idx++
			name = truncateSheetName(fmt.Sprintf("%s_%d", baseName, idx))
		}
		usedNames[strings.ToLower(name)] = true

		if _, err := xl.NewSheet(name); err != nil {
			return "", nil, f.fail("export", "EXCEL_WRITE_ERROR", "Failed to create sheet", err, "sheet", name)
		}
		writeConceptSheet(xl, name, byAudience[aid])
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, f.fail("export", "EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	filename := fmt.Sprintf("concepts_%s.xlsx", utils.UTCNow().Format("20060102_150405"))
	return filename, buf.Bytes(), nil
}

func writeConceptSheet(xl *excelize.File, sheet string, rows []*models.Concept) {
	header := conceptExportHeader
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, c := range rows {
		audienceName := ""
		if c.Audience != nil {
			audienceName = c.Audience.Name
		}
		parentID := ""
		if c.ParentConceptID != nil {
			parentID = c.ParentConceptID.String()
		}
		record := []string{
			c.ID.String(),
			c.Title,
			c.Description,
			audienceName,
			parentID,
			string(c.State()),
			c.CreatedAt.UTC().Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}
}

func sanitizeSheetName(name string) string {
	// Excel sheet names cannot contain: : \\ / ? * [ ] and must be <= 31 chars
	replacer := strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_")
	safe := replacer.Replace(name)
	return truncateSheetName(strings.TrimSpace(safe))
}

func truncateSheetName(name string) string {
	runes := []rune(name)
	if len(runes) > 31 {
		return string(runes[:31])
	}
	if name == "" {
		return "Sheet"
	}
	return name
}

// fail logs the cause of a failed operation and wraps it for the caller
func (f *ConceptFlowImpl) fail(op, code, message string, err error, kv ...any) error {
	fields := append([]any{"op", op, "error", err}, kv...)
	switch {
	case IsAudienceNotFound(err), IsConceptNotFound(err), IsConceptBusy(err), IsConceptModified(err), IsValidation(err), IsParentMismatch(err):
		f.logger.Warn(message, fields...)
	default:
		f.logger.Error(message, fields...)
	}
	return NewBusinessError(code, message, err)
}
