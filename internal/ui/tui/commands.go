package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/AustinGrey/bake-file/internal/domain"
)

const loadTimeout = 30 * time.Second

func cmdRefreshWorkspace(deps Deps) tea.Cmd {
	return func() tea.Msg {
		if deps.WorkspaceLocator == nil {
			return workspaceRefreshedMsg{err: errors.New("WorkspaceLocator is nil")}
		}
		root, err := deps.WorkspaceLocator.FindRoot(deps.StartDir)
		if err != nil {
			return workspaceRefreshedMsg{err: err}
		}
		return workspaceRefreshedMsg{found: true, root: root}
	}
}

func cmdInitWorkspaceHere(deps Deps, root string) tea.Cmd {
	return func() tea.Msg {
		if deps.WorkspaceInitializer == nil {
			return initWorkspaceDoneMsg{root: root, err: errors.New("WorkspaceInitializer is nil")}
		}
		err := deps.WorkspaceInitializer.Init(domain.WorkspaceSpec{Root: root}, false)
		return initWorkspaceDoneMsg{root: root, err: err}
	}
}

func cmdLoadRegistry(ctx context.Context, deps Deps, root string) tea.Cmd {
	return func() tea.Msg {
		if deps.Registry == nil {
			return registryLoadedMsg{root: root, err: errors.New("RegistryLoader is nil")}
		}

		ctx, cancel := context.WithTimeout(ctx, loadTimeout)
		defer cancel()

		start := time.Now()
		reg, files, err := deps.Registry.LoadRegistry(ctx, root)
		if err != nil {
			deps.Logger.Warn("registry.load_failed", "root", root, "err", err)
		} else if deps.Debug {
			deps.Logger.Debug("registry.loaded",
				"root", root,
				"files", len(files),
				"records", len(reg.Records()),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		}
		return registryLoadedMsg{root: root, reg: reg, files: files, err: err}
	}
}
