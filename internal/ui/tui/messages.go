package tui

import "github.com/AustinGrey/bake-file/internal/domain"

type workspaceRefreshedMsg struct {
	found bool
	root  string
	err   error
}

type initWorkspaceDoneMsg struct {
	root string
	err  error
}

type registryLoadedMsg struct {
	root  string
	reg   *domain.Registry
	files []domain.BakefileRef
	err   error
}
