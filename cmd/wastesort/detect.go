package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pbaille/wastesort/internal/catalog"
	"github.com/pbaille/wastesort/internal/classifier"
	"github.com/pbaille/wastesort/internal/domain"
	"github.com/pbaille/wastesort/internal/pipeline"
	"github.com/pbaille/wastesort/internal/store"
	"github.com/pbaille/wastesort/internal/upload"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func detectCmd() *cobra.Command {
	var (
		concurrency int
		retries     uint64
		asJSON      bool
		noProgress  bool
	)

	cmd := &cobra.Command{
		Use:   "detect [image files or URLs...]",
		Short: "Identify waste items in one or more images",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			p, err := newPipeline(nil)
			if err != nil {
				return err
			}

			s, err := store.New()
			if err != nil {
				return err
			}
			defer s.Close()

			imgs, loadFailures := loadImages(ctx, args, cfg.Upload.MaxBytes)

			bar := progressbar.NewOptions(len(imgs),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetVisibility(!noProgress && !asJSON && len(imgs) > 1),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Detecting..."),
				progressbar.OptionClearOnFinish(),
			)

			outcomes := pipeline.Batch(ctx, imgs, concurrency, retrying(p.Detect, retries), func() {
				_ = bar.Add(1)
			})
			_ = bar.Finish()

			var detections []*domain.Detection
			failed := loadFailures
			for _, o := range outcomes {
				if o.Err != nil {
					failed++
					fmt.Fprintf(os.Stderr, "%s: %s\n", o.Image, describeFailure(o.Err))
					continue
				}
				d, err := s.Record(o.Result)
				if err != nil {
					return err
				}
				detections = append(detections, d)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeDetectionsJSON(out, detections); err != nil {
					return err
				}
			} else {
				for _, d := range detections {
					printDetection(out, p.Catalog(), d)
				}
				if len(detections) > 1 {
					st, err := s.Stats()
					if err != nil {
						return err
					}
					printStats(out, st)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d images could not be identified", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 4, "images classified in parallel")
	cmd.Flags().Uint64Var(&retries, "retries", 2, "retries per image after a retryable failure")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print detections as JSON")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "hide the progress bar")
	cmd.Flags().Duration("timeout", 10*time.Second, "classification timeout per attempt")
	_ = viper.BindPFlag("classifier.timeout", cmd.Flags().Lookup("timeout"))
	return cmd
}

// loadImages reads and validates every argument. Unreadable or invalid images
// are reported and skipped.
func loadImages(ctx context.Context, args []string, maxBytes int64) ([]upload.Image, int) {
	var (
		imgs   []upload.Image
		failed int
	)

	for _, arg := range args {
		var (
			img upload.Image
			err error
		)
		if upload.IsURL(arg) {
			img, err = upload.Fetch(ctx, arg, maxBytes)
		} else {
			img, err = upload.FromFile(arg)
		}
		if err == nil {
			err = upload.Validate(img, maxBytes)
		}
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", arg, err)
			continue
		}
		imgs = append(imgs, img)
	}

	return imgs, failed
}

// retrying wraps detect with exponential backoff. Only retryable classifier
// failures are retried, and never once ctx is done.
func retrying(detect pipeline.DetectFunc, retries uint64) pipeline.DetectFunc {
	return func(ctx context.Context, img upload.Image) (domain.Result, error) {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 200 * time.Millisecond
		b.MaxElapsedTime = 0

		var res domain.Result
		op := func() error {
			var err error
			res, err = detect(ctx, img)
			if err == nil {
				return nil
			}
			if !classifier.IsRetryable(err) || errors.Is(err, classifier.ErrCancelled) {
				return backoff.Permanent(err)
			}
			return err
		}
		notify := func(err error, wait time.Duration) {
			logger.Warn("retrying detection",
				zap.String("image", img.Ref),
				zap.Duration("wait", wait),
				zap.Error(err))
		}

		err := backoff.RetryNotify(op, backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx), notify)
		if err != nil {
			return domain.Result{}, err
		}
		return res, nil
	}
}

func describeFailure(err error) string {
	switch {
	case errors.Is(err, catalog.ErrUnknownCategory):
		return "detection failed: " + err.Error()
	case errors.Is(err, classifier.ErrTimeout):
		return "detection timed out, please try again"
	case errors.Is(err, classifier.ErrCancelled), errors.Is(err, context.Canceled):
		return "detection cancelled"
	default:
		return "failed to detect waste type, please try again (" + err.Error() + ")"
	}
}

func writeDetectionsJSON(w io.Writer, detections []*domain.Detection) error {
	if detections == nil {
		detections = []*domain.Detection{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(detections)
}

func printDetection(w io.Writer, cat *catalog.Catalog, d *domain.Detection) {
	r := d.Result

	recyclable := warningStyle.Render("no")
	if r.IsRecyclable {
		recyclable = successStyle.Render("yes")
	}

	fmt.Fprintf(w, "%s %s  %s %s\n",
		cat.IconOf(r.WasteType),
		headerStyle.Render(r.ItemName),
		badge(cat, r.WasteType, r.Category),
		mutedStyle.Render(fmt.Sprintf("%d%% confident", r.Confidence)))
	fmt.Fprintf(w, "  ID:         %s\n", d.ID[:8])
	fmt.Fprintf(w, "  Image:      %s\n", truncate(r.Image, 60))
	fmt.Fprintf(w, "  Recyclable: %s\n", recyclable)
	fmt.Fprintf(w, "  Bin:        %s\n", r.DisposalBin)
	fmt.Fprintf(w, "  Prep time:  %s\n", r.PreparationTime)
	fmt.Fprintf(w, "  Collection: %s\n", r.CollectionSchedule)

	fmt.Fprintf(w, "\n  %s\n", headerStyle.Render("How to dispose:"))
	for i, step := range r.DisposalInstructions {
		fmt.Fprintf(w, "    %d. %s\n", i+1, step)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "\n  %s\n", headerStyle.Render("Warnings:"))
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "    %s\n", warningStyle.Render("! "+warn))
		}
	}

	fmt.Fprintf(w, "\n  Tip: %s\n", r.EnvironmentalTip)
	fmt.Fprintf(w, "  Impact: %.1f kg CO2, %.1f kWh, %.0f L water\n\n", r.CO2Impact, r.EnergyImpact, r.WaterImpact)
}

func printStats(w io.Writer, st domain.Stats) {
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "Items detected: %d (%d recyclable, %d%%)\n", st.ItemsDetected, st.Recyclable, st.RecyclingRate)
	fmt.Fprintf(w, "Savings:        %.2f kg CO2, %.2f kWh, %.2f L water\n", st.CO2Saved, st.EnergySaved, st.WaterSaved)
}
