package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fadilmartias/job-board/internal/apperror"
	"github.com/fadilmartias/job-board/internal/asyncres"
	"github.com/fadilmartias/job-board/internal/config"
	"github.com/fadilmartias/job-board/internal/dto"
	"github.com/fadilmartias/job-board/internal/logger"
	"github.com/fadilmartias/job-board/internal/model"
	"github.com/fadilmartias/job-board/internal/service"
	"github.com/fadilmartias/job-board/internal/usecase"
	"github.com/fadilmartias/job-board/internal/util"
	"github.com/fadilmartias/job-board/internal/validation"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// cli holds the values of the persistent flags shared by every command.
type cli struct {
	actorID    string
	role       string
	name       string
	serviceURL string
	apiKey     string
	timeout    time.Duration
	jsonLogs   bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "jobctl",
		Short: "Browse jobs, apply and review applications from the terminal",
		Long: `jobctl drives the job board workflows against the remote data service.

The acting user is taken from --actor-id/--role, falling back to the
ACTOR_ID and ACTOR_ROLE environment variables.

Examples:
  jobctl jobs list --location Jakarta
  jobctl jobs hiring <job-id> closed --role recruiter
  jobctl apply <job-id> --experience 3 --skills Go --education Graduate --resume cv.pdf
  jobctl applications status <job-id> <application-id> Interviewing`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !c.verbose {
				return nil
			}
			if err := logger.Initialize(c.jsonLogs); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
	}

	dataConfig := config.LoadDataServiceConfig()
	flags := root.PersistentFlags()
	flags.StringVar(&c.actorID, "actor-id", os.Getenv("ACTOR_ID"), "id of the acting user")
	flags.StringVar(&c.role, "role", envOr("ACTOR_ROLE", string(model.RoleCandidate)), "role of the acting user (candidate|recruiter)")
	flags.StringVar(&c.name, "name", os.Getenv("ACTOR_NAME"), "full name of the acting user")
	flags.StringVar(&c.serviceURL, "service-url", dataConfig.BaseURL, "data service base URL")
	flags.StringVar(&c.apiKey, "api-key", dataConfig.APIKey, "data service API key")
	flags.DurationVar(&c.timeout, "timeout", dataConfig.Timeout, "data service request timeout")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log workflow steps to stdout")
	flags.BoolVar(&c.jsonLogs, "json-logs", false, "log as JSON")

	root.AddCommand(c.jobsCmd(), c.applicationsCmd(), c.applyCmd(), c.savedCmd(), c.mineCmd())
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (c *cli) actor() (model.Actor, error) {
	actor := model.Actor{ID: c.actorID, Role: model.Role(c.role), FullName: c.name}
	if actor.ID == "" {
		return actor, apperror.Wrap(apperror.ErrUnauthorized, "--actor-id is required")
	}
	if !actor.Role.Valid() {
		return actor, apperror.Wrapf(apperror.ErrInvalidInput, "unknown role %q", c.role)
	}
	return actor, nil
}

func (c *cli) service(actor model.Actor) service.JobBoardServiceInterface {
	cfg := *config.LoadDataServiceConfig()
	cfg.BaseURL = c.serviceURL
	cfg.APIKey = c.apiKey
	cfg.Timeout = c.timeout
	return service.NewJobBoardServiceWithConfig(&cfg).WithActor(actor)
}

func (c *cli) options() []asyncres.Option {
	return []asyncres.Option{asyncres.WithPolicy(asyncres.ParsePolicy(config.LoadDataServiceConfig().SettlePolicy))}
}

// page resolves the actor and loads the job page for a job id argument.
func (c *cli) page(ctx context.Context, rawID string) (*usecase.JobPage, model.Actor, service.JobBoardServiceInterface, error) {
	actor, err := c.actor()
	if err != nil {
		return nil, actor, nil, err
	}
	jobID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, actor, nil, apperror.Wrapf(apperror.ErrInvalidInput, "invalid job id %q", rawID)
	}
	svc := c.service(actor)
	page := usecase.NewJobPage(actor, svc, jobID, c.options()...)
	if _, err := page.Load(ctx); err != nil {
		return nil, actor, nil, err
	}
	return page, actor, svc, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) jobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List, show and manage jobs",
	}

	var filter dto.JobFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := c.actor()
			if err != nil {
				return err
			}
			jobs, err := usecase.NewListingUsecase(c.service(actor)).Jobs(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), jobs)
		},
	}
	list.Flags().StringVar(&filter.Location, "location", "", "filter by location")
	list.Flags().StringVar(&filter.CompanyID, "company", "", "filter by company id")
	list.Flags().StringVar(&filter.Search, "search", "", "search job titles")

	get := &cobra.Command{
		Use:   "get <job-id>",
		Short: "Show a job as the acting user sees it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, _, _, err := c.page(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), page.View())
		},
	}

	hiring := &cobra.Command{
		Use:       "hiring <job-id> open|closed",
		Short:     "Open or close hiring for a job you own",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"open", "closed"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var open bool
			switch args[1] {
			case "open":
				open = true
			case "closed":
			default:
				return apperror.Wrapf(apperror.ErrInvalidInput, "hiring status must be open or closed, got %q", args[1])
			}
			page, actor, svc, err := c.page(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := usecase.NewHiringControl(actor, svc, page, c.options()...).Toggle(cmd.Context(), open); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), page.View())
		},
	}

	cmd.AddCommand(list, get, hiring)
	return cmd
}

func (c *cli) applicationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "applications",
		Short: "Review applications on your jobs",
	}
	status := &cobra.Command{
		Use:   "status <job-id> <application-id> <status>",
		Short: "Move an application to another status",
		Long:  "Move an application to Applied, Interviewing, Hired, Rejected or \"Group Discussion\".",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, err := uuid.Parse(args[1])
			if err != nil {
				return apperror.Wrapf(apperror.ErrInvalidInput, "invalid application id %q", args[1])
			}
			page, _, svc, err := c.page(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, ctl := range usecase.ApplicationControls(page, svc, c.options()...) {
				if ctl.Ref().ApplicationID != appID {
					continue
				}
				if err := ctl.Transition(cmd.Context(), model.ApplicationStatus(args[2])); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]any{"application_id": appID, "status": ctl.Status()})
			}
			return apperror.Wrapf(apperror.ErrNotFound, "application %s not found on job %s", appID, page.JobID())
		},
	}
	cmd.AddCommand(status)
	return cmd
}

func (c *cli) applyCmd() *cobra.Command {
	var form validation.ApplyForm
	var resumePath string
	cmd := &cobra.Command{
		Use:   "apply <job-id>",
		Short: "Apply to an open job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, actor, svc, err := c.page(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if resumePath != "" {
				resume, err := util.ReadResumeFile(resumePath)
				if err != nil {
					return err
				}
				form.Resume = resume
			}

			apply := usecase.NewApplyUsecase(actor, svc, page, c.options()...)
			apply.SetForm(form)
			app, err := apply.Submit(cmd.Context())
			if err != nil {
				var formErr *util.FormError
				if apperror.As(err, &formErr) {
					_ = printJSON(cmd.ErrOrStderr(), formErr.Errors)
				}
				return err
			}
			return printJSON(cmd.OutOrStdout(), app)
		},
	}
	cmd.Flags().StringVar(&form.Experience, "experience", "", "years of experience")
	cmd.Flags().StringVar(&form.Skills, "skills", "", "skills, comma separated")
	cmd.Flags().StringVar(&form.Education, "education", "", "Intermediate, Graduate or Post-Graduate")
	cmd.Flags().StringVar(&resumePath, "resume", "", "path to a PDF or Word resume")
	return cmd
}

func (c *cli) savedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "saved",
		Short: "List your saved jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := c.actor()
			if err != nil {
				return err
			}
			saved, err := usecase.NewListingUsecase(c.service(actor)).SavedJobs(cmd.Context(), actor)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), saved)
		},
	}
}

func (c *cli) mineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your created jobs or your applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := c.actor()
			if err != nil {
				return err
			}
			mine, err := usecase.NewListingUsecase(c.service(actor)).MyJobs(cmd.Context(), actor)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), mine)
		},
	}
}
