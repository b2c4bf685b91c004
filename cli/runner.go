package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	workpro "github.com/AndreasSchmid1988/workpro-frontend"
	"github.com/AndreasSchmid1988/workpro-frontend/client"
	"github.com/AndreasSchmid1988/workpro-frontend/config"
	"github.com/AndreasSchmid1988/workpro-frontend/internal/logger"
)

// Run executes the command line args and writes the result as JSON to stdout.
func Run(args []string) error {
	return run(context.Background(), args, os.Stdout)
}

func run(ctx context.Context, args []string, w io.Writer, options ...workpro.Option) error {
	opts := &Options{}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		return err
	}
	if parser.Active == nil {
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return err
	}
	if err = setLogger(cfg, opts.Verbose); err != nil {
		return err
	}

	cli, err := workpro.New(ctx, cfg, append([]workpro.Option{workpro.WithNotifier(client.NewLogNotifier())}, options...)...)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := cli.Close(); cErr != nil {
			logger.Log(ctx).Warn(ctx, "failed to close client", zap.Error(cErr))
		}
	}()

	result, err := execute(ctx, cli, opts, parser.Active.Name)
	if err != nil {
		return err
	}
	return write(w, result)
}

func execute(ctx context.Context, cli *workpro.Client, opts *Options, command string) (any, error) {
	switch command {
	case "login":
		return cli.Login(ctx, opts.Login.User, opts.Login.Password)
	case "logout":
		if err := cli.Logout(ctx); err != nil {
			return nil, err
		}
		return map[string]any{"authenticated": false}, nil
	case "whoami":
		return cli.Account.FetchUserInfo(ctx)
	case "list":
		return list(ctx, cli, &opts.List)
	case "get":
		r, err := lookup(cli, opts.Get.Args.Resource)
		if err != nil {
			return nil, err
		}
		return r.get(ctx, client.ID(opts.Get.Args.ID))
	case "delete":
		r, err := lookup(cli, opts.Delete.Args.Resource)
		if err != nil {
			return nil, err
		}
		if err = r.delete(ctx, client.ID(opts.Delete.Args.ID)); err != nil {
			return nil, err
		}
		return map[string]any{"deleted": opts.Delete.Args.ID}, nil
	case "countries":
		return cli.Reporting.FetchCountries(ctx, opts.Countries.Locale)
	case "summary":
		return cli.Reporting.FetchSummary(ctx)
	}
	return nil, fmt.Errorf("unsupported command %q", command)
}

type listResult struct {
	Items      any               `json:"items"`
	Pagination client.Pagination `json:"pagination"`
}

func list(ctx context.Context, cli *workpro.Client, cmd *ListCommand) (*listResult, error) {
	r, err := lookup(cli, cmd.Args.Resource)
	if err != nil {
		return nil, err
	}
	r.configure(client.Pagination{
		Page:        cmd.Page,
		RowsPerPage: cmd.PerPage,
		SortBy:      cmd.SortBy,
		Descending:  !cmd.Asc,
	}, cmd.Search)
	items, err := r.list(ctx, client.Where("status", cmd.Status))
	if err != nil {
		return nil, err
	}
	return &listResult{Items: items, Pagination: r.pagination()}, nil
}

func setLogger(cfg *config.Config, verbose bool) error {
	env := logger.Environment(cfg.Env)
	if verbose {
		env = logger.Development
	}
	log, err := logger.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return err
	}
	logger.SetGlobalLogger(log)
	return nil
}

func write(w io.Writer, result any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
