package admin

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/cloo-solutions/greenplate/internal/logging"
	"github.com/cloo-solutions/greenplate/internal/service"
	"github.com/cloo-solutions/greenplate/internal/storage"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

const maxImportLine = 4 * 1024 * 1024

// recipeRecord is one line of the catalog export.
type recipeRecord struct {
	ID                 int64   `json:"id"`
	Title              string  `json:"title"`
	Slug               string  `json:"slug"`
	Ingredients        string  `json:"ingredients"`
	Categories         string  `json:"categories"`
	Servings           string  `json:"servings"`
	Calories           float64 `json:"calories"`
	Sodium             float64 `json:"sodium"`
	Fat                float64 `json:"fat"`
	Protein            float64 `json:"protein"`
	Emissions          float64 `json:"emissions"`
	EmissionsLog10     float64 `json:"emissions_log10"`
	PropIngredients    float64 `json:"prop_ingredients"`
	Rating             float64 `json:"rating"`
	ReviewCount        int64   `json:"review_count"`
	ImageURL           string  `json:"image_url"`
	PercRating         float64 `json:"perc_rating"`
	PercSustainability float64 `json:"perc_sustainability"`
}

// similarityRecord is one line of the neighbour export. Scores keep the
// upstream sign convention.
type similarityRecord struct {
	RecipeID    int64     `json:"recipe_id"`
	NeighborIDs []int64   `json:"neighbor_ids"`
	Scores      []float32 `json:"scores"`
}

type importStats struct {
	Recipes      int
	Similarities int
	Images       int
	Skipped      int
}

func ImportCmd() *cobra.Command {
	var (
		similarityPath string
		imagesDir      string
	)

	cmd := &cobra.Command{
		Use:   "import <recipes.jsonl>",
		Short: "Load the offline catalog into the database",
		Long: `Load recipes, precomputed similarity rows and recipe photos.

Each input file holds one JSON object per line. Photos are read from
--images-dir as <recipe id>.<ext> and uploaded to the image bucket.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				var stats importStats

				if imagesDir != "" && a.images != nil {
					if err := a.images.EnsureBucket(ctx); err != nil {
						return err
					}
				}

				if err := importFile(args[0], func(line []byte) error {
					rec, err := decodeRecipe(line)
					if err != nil {
						return err
					}
					if imagesDir != "" && a.images != nil {
						key, err := uploadImage(ctx, a.images, imagesDir, rec.ID)
						if err != nil {
							return err
						}
						if key != "" {
							rec.ImageURL = key
							stats.Images++
						}
					}
					if err := a.catalogRepo.UpsertRecipe(ctx, rec); err != nil {
						return fmt.Errorf("recipe %d: %w", rec.ID, err)
					}
					stats.Recipes++
					return nil
				}, &stats.Skipped); err != nil {
					return err
				}

				// The similarity matrix is replaced as a whole or not at all.
				if similarityPath != "" {
					err := a.tx.WithTx(ctx, func(repos service.TxRepositories) error {
						catalog := repos.Catalog()
						return importFile(similarityPath, func(line []byte) error {
							row, err := decodeSimilarity(line)
							if err != nil {
								return err
							}
							if err := catalog.UpsertSimilarityRow(ctx, row.RecipeID, row.NeighborIDs, row.Scores); err != nil {
								return fmt.Errorf("similarity row %d: %w", row.RecipeID, err)
							}
							stats.Similarities++
							return nil
						}, &stats.Skipped)
					})
					if err != nil {
						return err
					}
				}

				if imagesDir != "" && a.images == nil {
					logging.Warn().Msg("image store not configured, photos were not uploaded")
				}

				fmt.Printf("Imported %d recipes, %d similarity rows, %d images (%d lines skipped)\n",
					stats.Recipes, stats.Similarities, stats.Images, stats.Skipped)

				if err := a.histogram.Refresh(ctx); err != nil {
					logging.Warn().Err(err).Msg("failed to refresh emissions histogram")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&similarityPath, "similarity", "", "JSONL file of precomputed similarity rows")
	cmd.Flags().StringVar(&imagesDir, "images-dir", "", "Directory of recipe photos named <id>.<ext>")

	return cmd
}

// importFile feeds each non-blank line of path to fn. Lines that fail to
// decode are logged and counted; store errors abort the import.
func importFile(path string, fn func(line []byte) error, skipped *int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return scanLines(f, path, fn, skipped)
}

func scanLines(r io.Reader, name string, fn func(line []byte) error, skipped *int) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxImportLine)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		err := fn(line)
		if domain.IsValidation(err) {
			logging.Warn().Err(err).Str("file", name).Int("line", lineNo).Msg("skipping invalid line")
			*skipped++
			continue
		}
		if err != nil {
			return fmt.Errorf("%s:%d: %w", name, lineNo, err)
		}
	}
	return scanner.Err()
}

func decodeRecipe(line []byte) (*domain.Recipe, error) {
	var r recipeRecord
	if err := json.Unmarshal(line, &r); err != nil {
		return nil, invalidRecord(err.Error())
	}
	rec := &domain.Recipe{
		ID:                 r.ID,
		Title:              r.Title,
		Slug:               r.Slug,
		Ingredients:        r.Ingredients,
		Categories:         r.Categories,
		Servings:           r.Servings,
		Calories:           r.Calories,
		Sodium:             r.Sodium,
		Fat:                r.Fat,
		Protein:            r.Protein,
		Emissions:          r.Emissions,
		EmissionsLog10:     r.EmissionsLog10,
		PropIngredients:    r.PropIngredients,
		Rating:             r.Rating,
		ReviewCount:        r.ReviewCount,
		ImageURL:           r.ImageURL,
		PercRating:         r.PercRating,
		PercSustainability: r.PercSustainability,
	}
	if err := domain.ValidateRecipe(rec); err != nil {
		return nil, invalidRecord(err.Error())
	}
	return rec, nil
}

func decodeSimilarity(line []byte) (*similarityRecord, error) {
	var r similarityRecord
	if err := json.Unmarshal(line, &r); err != nil {
		return nil, invalidRecord(err.Error())
	}
	if r.RecipeID <= 0 {
		return nil, invalidRecord("recipe_id must be positive")
	}
	if len(r.NeighborIDs) != len(r.Scores) {
		return nil, invalidRecord(fmt.Sprintf("neighbor_ids and scores differ in length: %d != %d", len(r.NeighborIDs), len(r.Scores)))
	}
	return &r, nil
}

func invalidRecord(msg string) error {
	return domain.NewDomainError(domain.ErrCodeValidation, "invalid record: "+msg)
}

var imageExts = []string{"jpg", "jpeg", "png", "webp"}

// findImage returns the photo for recipeID in dir, or "" when there is none.
func findImage(dir string, recipeID int64) (string, string) {
	base := strconv.FormatInt(recipeID, 10)
	for _, ext := range imageExts {
		path := filepath.Join(dir, base+"."+ext)
		if _, err := os.Stat(path); err == nil {
			return path, ext
		}
	}
	return "", ""
}

// uploadImage uploads the recipe photo unless it is already stored and
// returns its object key, or "" when the recipe has no photo on disk.
func uploadImage(ctx context.Context, images *storage.ImageStore, dir string, recipeID int64) (string, error) {
	path, ext := findImage(dir, recipeID)
	if path == "" {
		return "", nil
	}

	key := storage.ImageKey(recipeID, ext)
	if images.Exists(ctx, key) {
		return key, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	if err := images.Upload(ctx, key, storage.ContentTypeForExt(ext), f); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return key, nil
}
