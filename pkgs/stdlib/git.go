package stdlib

import (
	stderrors "errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/aledsdavies/cereal/pkgs/errors"
	"github.com/aledsdavies/cereal/pkgs/execution"
)

// GitOutputVar receives the output of every git call
const GitOutputVar = "git_output"

// Git runs git subcommands. init, clone, status, add, commit and head are
// handled in-process; anything else is passed to the git binary.
type Git struct {
	Binary string
}

// NewGit creates the git library
func NewGit() *Git {
	return &Git{Binary: "git"}
}

func (g *Git) Signature() *Signature {
	return &Signature{
		Name:        "git",
		Description: "Run a git subcommand",
		Registers: []RegisterSpec{
			{Register: register(0), Name: "subcommand", Description: "init, clone, status, add, commit, head or any git subcommand"},
			{Register: register(1), Name: "arguments", Description: "space separated arguments (the message for commit)", Optional: true},
		},
		Results: []string{GitOutputVar},
	}
}

func (g *Git) Execute(ctx *execution.ExecutionContext) error {
	subcommand := ctx.Variables[register(0)]
	rawArgs := ctx.Variables[register(1)]
	args := strings.Fields(rawArgs)

	var (
		output string
		err    error
	)
	switch subcommand {
	case "init":
		output, err = g.init(ctx, args)
	case "clone":
		output, err = g.clone(ctx, args)
	case "status":
		output, err = g.status(ctx)
	case "add":
		output, err = g.add(ctx, args)
	case "commit":
		output, err = g.commit(ctx, rawArgs)
	case "head":
		output, err = g.head(ctx)
	default:
		return g.external(ctx, subcommand, args)
	}
	if err != nil {
		return errors.Wrap(errors.ErrLibrary, fmt.Sprintf("git %s failed", subcommand), err)
	}

	ctx.SetVariable(GitOutputVar, output)
	if output != "" {
		fmt.Fprintln(ctx.Stdout, output)
	}
	return nil
}

func (g *Git) init(ctx *execution.ExecutionContext, args []string) (string, error) {
	dir := resolvePath(ctx, ".")
	if len(args) > 0 {
		dir = resolvePath(ctx, args[0])
	}

	if _, err := git.PlainInit(dir, false); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return fmt.Sprintf("Initialized empty Git repository in %s", filepath.Join(abs, ".git")), nil
}

func (g *Git) clone(ctx *execution.ExecutionContext, args []string) (string, error) {
	if len(args) == 0 {
		return "", stderrors.New("clone requires a repository URL")
	}
	url := args[0]

	target := strings.TrimSuffix(path.Base(url), ".git")
	if len(args) > 1 {
		target = args[1]
	}
	dir := resolvePath(ctx, target)

	if _, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:               url,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
	}); err != nil {
		return "", err
	}
	return fmt.Sprintf("Cloned %s into %s", url, target), nil
}

func (g *Git) status(ctx *execution.ExecutionContext) (string, error) {
	worktree, err := g.worktree(ctx)
	if err != nil {
		return "", err
	}
	status, err := worktree.Status()
	if err != nil {
		return "", err
	}
	if status.IsClean() {
		return "nothing to commit, working tree clean", nil
	}
	return strings.TrimRight(status.String(), "\n"), nil
}

func (g *Git) add(ctx *execution.ExecutionContext, paths []string) (string, error) {
	if len(paths) == 0 {
		return "", stderrors.New("add requires at least one path")
	}
	worktree, err := g.worktree(ctx)
	if err != nil {
		return "", err
	}

	for _, p := range paths {
		if p == "." {
			if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
				return "", err
			}
			continue
		}
		if _, err := worktree.Add(p); err != nil {
			return "", err
		}
	}
	return "", nil
}

func (g *Git) commit(ctx *execution.ExecutionContext, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", stderrors.New("commit requires a message")
	}
	worktree, err := g.worktree(ctx)
	if err != nil {
		return "", err
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{})
	if stderrors.Is(err, git.ErrMissingAuthor) {
		// No user configured anywhere
		hash, err = worktree.Commit(message, &git.CommitOptions{
			Author: &object.Signature{
				Name:  "cereal",
				Email: "cereal@localhost",
				When:  time.Now(),
			},
		})
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("[%s] %s", hash.String()[:7], message), nil
}

func (g *Git) head(ctx *execution.ExecutionContext) (string, error) {
	repo, err := g.open(ctx)
	if err != nil {
		return "", err
	}
	ref, err := repo.Head()
	if err != nil {
		return "", err
	}
	return ref.Hash().String(), nil
}

// external passes anything not handled in-process to the git binary
func (g *Git) external(ctx *execution.ExecutionContext, subcommand string, args []string) error {
	result, err := ctx.RunProcess(g.Binary, append([]string{subcommand}, args...)...)
	if err != nil {
		return err
	}
	ctx.SetVariable(GitOutputVar, strings.TrimRight(result.Stdout, "\r\n"))
	if !result.Success() {
		return errors.Newf(errors.ErrLibrary, "Git command failed with exit code: %d", result.ExitCode)
	}
	return nil
}

func (g *Git) open(ctx *execution.ExecutionContext) (*git.Repository, error) {
	return git.PlainOpenWithOptions(resolvePath(ctx, "."), &git.PlainOpenOptions{DetectDotGit: true})
}

func (g *Git) worktree(ctx *execution.ExecutionContext) (*git.Worktree, error) {
	repo, err := g.open(ctx)
	if err != nil {
		return nil, err
	}
	return repo.Worktree()
}

// resolvePath makes p relative to the context's working directory
func resolvePath(ctx *execution.ExecutionContext, p string) string {
	if filepath.IsAbs(p) || ctx.WorkingDir == "" {
		return p
	}
	return filepath.Join(ctx.WorkingDir, p)
}
