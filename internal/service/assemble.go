package service

import (
	"context"
	"sort"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/cloo-solutions/greenplate/internal/pagination"
	"github.com/cloo-solutions/greenplate/internal/telemetry"
)

const (
	DefaultPageSize         = 20
	DefaultCookbookPageSize = 40
)

// AssembleInput is a ranked result set plus the presentation options.
type AssembleInput struct {
	// UserID is 0 for anonymous requests; no overlay is applied then.
	UserID  int64
	Route   domain.Route
	Kind    domain.ScoreKind
	Results []domain.ScoredRecipe
	// SplitReference moves Results[0] to ResultPage.Reference.
	SplitReference bool
	Sort           domain.SortKey
	Page           int
	PageSize       int
	// Overlay, when non-nil, is used instead of querying the interaction store.
	Overlay map[int64]domain.Interaction
}

// Assembler merges the per-user overlay, normalises display fields, sorts
// and paginates.
type Assembler struct {
	interactions InteractionRepositoryInterface
	images       ImageURLResolver
}

func NewAssembler(interactions InteractionRepositoryInterface) *Assembler {
	return &Assembler{interactions: interactions}
}

// WithImageResolver resolves image references on the returned page.
func (a *Assembler) WithImageResolver(images ImageURLResolver) *Assembler {
	a.images = images
	return a
}

func (a *Assembler) Assemble(ctx context.Context, in AssembleInput) (*domain.ResultPage, error) {
	if in.Page < 0 {
		return nil, domain.ErrNegativePage
	}
	sortKey, err := domain.ParseSortKey(string(in.Sort))
	if err != nil {
		return nil, err
	}
	pageSize := in.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if len(in.Results) == 0 {
		return domain.EmptyPage(in.Route, sortKey, in.Page, pageSize), nil
	}

	ctx, span := telemetry.StartSpan(ctx, "service.assembler.assemble", telemetry.SpanAttributes{
		UserID:    in.UserID,
		Route:     string(in.Route),
		Operation: "assemble",
	})
	defer span.End()

	rows := make([]*domain.SearchResultRow, len(in.Results))
	for i, res := range in.Results {
		rows[i] = &domain.SearchResultRow{
			Recipe:     res.Recipe,
			Score:      res.Score,
			ScoreKind:  in.Kind,
			UserRating: domain.RatingNeutral,
		}
	}

	if in.UserID > 0 {
		overlay := in.Overlay
		if overlay == nil {
			overlay, err = a.interactions.GetMany(ctx, in.UserID, recipeIDs(rows))
			if err != nil {
				span.SetError(err)
				return nil, storeError("load interaction overlay", err)
			}
		}
		applyOverlay(rows, in.UserID, overlay)
	}

	var reference *domain.SearchResultRow
	if in.SplitReference {
		reference = rows[0]
		rows = rows[1:]
	}

	for _, row := range rows {
		normalize(row)
		if reference != nil {
			change := domain.EmissionChange(row.Recipe.Emissions, reference.Recipe.Emissions)
			row.EmissionChange = &change
		}
	}
	if reference != nil {
		normalize(reference)
	}

	sortRows(rows, sortKey)

	page, err := pagination.Paginate(rows, in.Page, pageSize)
	if err != nil {
		return nil, domain.ErrNegativePage
	}

	if a.images != nil {
		for _, row := range page.Items {
			a.resolveImage(ctx, row)
		}
		if reference != nil {
			a.resolveImage(ctx, reference)
		}
	}

	return &domain.ResultPage{
		Route:     in.Route,
		Reference: reference,
		Rows:      page.Items,
		Sort:      sortKey,
		Page:      in.Page,
		PageSize:  pageSize,
		Total:     page.Total,
		HasMore:   page.HasMore,
	}, nil
}

func recipeIDs(rows []*domain.SearchResultRow) []int64 {
	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.Recipe.ID
	}
	return ids
}

func applyOverlay(rows []*domain.SearchResultRow, userID int64, overlay map[int64]domain.Interaction) {
	for _, row := range rows {
		in, ok := overlay[row.Recipe.ID]
		if !ok {
			in = domain.DefaultInteraction(userID, row.Recipe.ID)
		}
		row.HasOverlay = true
		row.Bookmarked = in.Bookmarked
		row.UserRating = in.Rating
	}
}

func normalize(row *domain.SearchResultRow) {
	row.RatingPercent = domain.RatingPercent(row.Recipe.Rating)
	if row.ScoreKind == domain.ScoreSimilarity {
		row.SimilarityPercent = domain.SimilarityPercent(row.Score)
	}
	row.SustainabilityPercentile = row.Recipe.PercSustainability
	if row.HasOverlay {
		row.UserRatingPercent = row.UserRating.Percent()
	}
}

func sortRows(rows []*domain.SearchResultRow, key domain.SortKey) {
	switch key {
	case domain.SortSustainability:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Recipe.Emissions < rows[j].Recipe.Emissions
		})
	case domain.SortRating:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Recipe.Rating > rows[j].Recipe.Rating
		})
	}
}

func (a *Assembler) resolveImage(ctx context.Context, row *domain.SearchResultRow) {
	if row.Recipe.ImageURL == "" {
		return
	}
	resolved := a.images.ResolveImageURL(ctx, row.Recipe.ImageURL)
	if resolved == row.Recipe.ImageURL {
		return
	}
	rec := *row.Recipe
	rec.ImageURL = resolved
	row.Recipe = &rec
}
