package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/drewdunne/recap/internal/config"
	"github.com/drewdunne/recap/internal/output"
	"github.com/drewdunne/recap/internal/provider"
	githubprovider "github.com/drewdunne/recap/internal/provider/github"
	gitlabprovider "github.com/drewdunne/recap/internal/provider/gitlab"
	"github.com/drewdunne/recap/internal/recap"
	"github.com/drewdunne/recap/internal/render"
	"github.com/drewdunne/recap/internal/slack"
	"github.com/drewdunne/recap/internal/summary"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// defaultOutput is the sentinel --output takes when passed without a
// value; the dispatcher replaces it with the dated default path. The
// angle brackets keep it from colliding with any real file name.
const defaultOutput = "<date>"

// runRecap is the dispatcher: configuration, aggregation, summarization,
// rendering, and delivery, strictly in that order. Any error returned here
// ends the run with a nonzero exit status.
func runRecap(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	format := viper.GetString("format")
	if format != "markdown" && format != "rtf" {
		return fmt.Errorf("invalid format %q (expected markdown or rtf)", format)
	}

	// Posting needs a token; fail before touching the network rather than
	// after the whole pipeline has run.
	slackTarget := viper.GetString("slack_user")
	if slackTarget != "" && cfg.Slack.Token == "" {
		return fmt.Errorf("no Slack token configured (set SLACK_API_TOKEN or slack.token)")
	}

	window, err := recap.ParseWindow(viper.GetString("range"))
	if err != nil {
		return err
	}

	owner, repo, err := cfg.SplitRepository()
	if err != nil {
		return err
	}

	prov := newProvider(cfg)
	agg := recap.NewAggregator(prov, owner, repo, recap.WithBotLogin(cfg.Provider.BotLogin))

	now := time.Now()
	prs, err := agg.Collect(ctx, window)
	if err != nil {
		return describeCollectError(err, cfg.Provider.Repository)
	}

	if cfg.Summaries.APIKey != "" {
		gen := summary.New(cfg.Summaries.APIKey, summary.WithModel(cfg.Summaries.Model))
		for _, pr := range prs {
			if _, err := pr.Summarize(ctx, gen); err != nil {
				log.Printf("Warning: could not summarize PR #%d: %v", pr.Number, err)
			}
		}
	}

	if err := deliver(cmd, cfg, prs, format, now); err != nil {
		return err
	}

	if slackTarget != "" {
		if err := postToSlack(ctx, cfg, prs, slackTarget, window, now); err != nil {
			return err
		}
	}

	return nil
}

// deliver renders the records and writes them to stdout and/or a file.
// Markdown always goes to stdout; the RTF document goes to stdout only
// when no output file was requested.
func deliver(cmd *cobra.Command, cfg *config.Config, prs []*recap.PullRequest, format string, now time.Time) error {
	writer := output.NewWriter(cfg.Output.Dir)

	path := viper.GetString("output")
	ext := "md"
	rendered := ""

	switch format {
	case "rtf":
		ext = "rtf"
		rendered = render.RTF(prs)
	default:
		rendered = render.Markdown(prs)
		fmt.Fprintln(cmd.OutOrStdout(), rendered)
	}

	if path == "" {
		if format == "rtf" {
			fmt.Fprint(cmd.OutOrStdout(), rendered)
		}
		return nil
	}

	written, err := writer.Write(resolveOutputPath(path, writer, now, ext), []byte(rendered))
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", written)
	return nil
}

// resolveOutputPath maps the no-value sentinel to the writer's dated
// default path; every other value, "default" included, is a literal
// file path.
func resolveOutputPath(path string, writer *output.Writer, now time.Time, ext string) string {
	if path == defaultOutput {
		return writer.DefaultPath(now, ext)
	}
	return path
}

// postToSlack resolves the target and posts the header plus the threaded
// detail reply.
func postToSlack(ctx context.Context, cfg *config.Config, prs []*recap.PullRequest, target string, window recap.Window, now time.Time) error {
	poster := slack.New(cfg.Slack.Token)

	channel, err := poster.ResolveTarget(ctx, target)
	if err != nil {
		return err
	}

	start := window.Start(now)
	header := fmt.Sprintf("%s PR Summary: %s to %s",
		window.Label(),
		start.Format("January 2, 2006"),
		now.UTC().Format("January 2, 2006"))

	return poster.PostRecap(ctx, channel, header, render.SlackBlocks(prs), render.FallbackText(prs))
}

// resolveConfig loads the config file when one is present and falls back
// to pure environment configuration otherwise.
func resolveConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	if _, err := os.Stat("recap.yaml"); err == nil {
		return config.Load("recap.yaml")
	}
	return config.FromEnv(), nil
}

func newProvider(cfg *config.Config) provider.Provider {
	if cfg.Provider.Kind == "gitlab" {
		return gitlabprovider.New(cfg.Provider.Token)
	}
	return githubprovider.New(cfg.Provider.Token)
}

// describeCollectError turns provider sentinel errors into the specific
// messages the operator needs.
func describeCollectError(err error, repository string) error {
	switch {
	case errors.Is(err, provider.ErrAuth):
		return fmt.Errorf("authentication failed for %s: check your access token (%v)", repository, err)
	case errors.Is(err, provider.ErrNotFound):
		return fmt.Errorf("repository %s not found: check the repository name and token scope (%v)", repository, err)
	default:
		return err
	}
}
