// Package testhelpers provides an ephemeral-repository test harness:
// a Scene wraps a temporary Git repository cloned from a cached template
// for speed, plus assertion helpers over its branches and commits.
package testhelpers

import (
	"fmt"
	"os"
	"sync"
	"testing"
)

var (
	minimalTemplateDir  string
	minimalTemplateErr  error
	minimalTemplateOnce sync.Once

	basicTemplateDir  string
	basicTemplateErr  error
	basicTemplateOnce sync.Once
)

func getMinimalTemplate(t *testing.T) string {
	minimalTemplateOnce.Do(func() {
		dir, err := os.MkdirTemp("", "spry-test-minimal-template-*")
		if err != nil {
			minimalTemplateErr = fmt.Errorf("create minimal template dir: %w", err)
			return
		}
		minimalTemplateDir = dir

		if _, err := NewGitRepo(minimalTemplateDir); err != nil {
			minimalTemplateErr = fmt.Errorf("init minimal template repo: %w", err)
			return
		}
	})

	if minimalTemplateErr != nil {
		t.Fatalf("minimal template initialization failed: %v", minimalTemplateErr)
	}
	return minimalTemplateDir
}

func getBasicTemplate(t *testing.T) string {
	basicTemplateOnce.Do(func() {
		minimalDir := getMinimalTemplate(t)

		dir, err := os.MkdirTemp("", "spry-test-basic-template-*")
		if err != nil {
			basicTemplateErr = fmt.Errorf("create basic template dir: %w", err)
			return
		}
		basicTemplateDir = dir

		repo, err := NewGitRepoFromTemplate(basicTemplateDir, minimalDir)
		if err != nil {
			basicTemplateErr = fmt.Errorf("init basic template repo: %w", err)
			return
		}

		if err := BasicSceneSetup(&Scene{Repo: repo, Dir: basicTemplateDir}); err != nil {
			basicTemplateErr = fmt.Errorf("run basic setup on template: %w", err)
			return
		}
	})

	if basicTemplateErr != nil {
		t.Fatalf("basic template initialization failed: %v", basicTemplateErr)
	}
	return basicTemplateDir
}

// Scene is a temporary directory holding a Git repository, used as the
// fixture for one test.
type Scene struct {
	Dir    string
	Repo   *GitRepo
	oldDir string
}

// SceneSetup customizes a Scene immediately after its repository is ready.
type SceneSetup func(*Scene) error

// NewScene creates a scene and chdirs the process into it for the
// duration of the test. NOT safe for t.Parallel(); use NewSceneParallel
// for tests that run concurrently.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "spry-test-*")
	if err != nil {
		t.Fatalf("create temp dir: %v", err)
	}

	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("get current directory: %v", err)
	}

	repo, isBasic, err := cloneFromTemplate(t, tmpDir, setup)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		t.Fatalf("create git repo: %v", err)
	}

	scene := &Scene{Dir: tmpDir, Repo: repo, oldDir: oldDir}

	if err := os.Chdir(tmpDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		t.Fatalf("change directory: %v", err)
	}

	if setup != nil && !isBasic {
		if err := setup(scene); err != nil {
			_ = os.Chdir(oldDir)
			_ = os.RemoveAll(tmpDir)
			t.Fatalf("scene setup failed: %v", err)
		}
	}

	t.Cleanup(func() {
		_ = os.Chdir(oldDir)
		if os.Getenv("DEBUG") == "" {
			_ = os.RemoveAll(tmpDir)
		}
	})

	return scene
}

// NewSceneParallel creates a scene without changing the process working
// directory, so it is safe to use from parallel tests. All git operations
// must go through scene.Repo, which carries its own directory.
func NewSceneParallel(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "spry-test-*")
	if err != nil {
		t.Fatalf("create temp dir: %v", err)
	}

	repo, isBasic, err := cloneFromTemplate(t, tmpDir, setup)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		t.Fatalf("create git repo: %v", err)
	}

	scene := &Scene{Dir: tmpDir, Repo: repo}

	if setup != nil && !isBasic {
		if err := setup(scene); err != nil {
			_ = os.RemoveAll(tmpDir)
			t.Fatalf("scene setup failed: %v", err)
		}
	}

	t.Cleanup(func() {
		if os.Getenv("DEBUG") == "" {
			_ = os.RemoveAll(tmpDir)
		}
	})

	return scene
}

func cloneFromTemplate(t *testing.T, tmpDir string, setup SceneSetup) (*GitRepo, bool, error) {
	if setup != nil && fmt.Sprintf("%p", setup) == fmt.Sprintf("%p", BasicSceneSetup) {
		repo, err := NewGitRepoFromTemplate(tmpDir, getBasicTemplate(t))
		return repo, true, err
	}
	repo, err := NewGitRepoFromTemplate(tmpDir, getMinimalTemplate(t))
	return repo, false, err
}

// BasicSceneSetup creates a scene with a single commit already on main.
func BasicSceneSetup(scene *Scene) error {
	return scene.Repo.CreateChangeAndCommit("1", "1")
}
