package session

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_PathsDerivedFromID(t *testing.T) {
	sess := New("/results", "remote_results")

	if sess.ID == "" {
		t.Fatal("session id must not be empty")
	}
	if !strings.HasPrefix(sess.LocalRoot, filepath.Join("/results", sess.ID)) {
		t.Fatalf("local root %q not namespaced by id %q", sess.LocalRoot, sess.ID)
	}
	if sess.RemoteRoot != "remote_results/"+sess.ID {
		t.Fatalf("remote root %q not namespaced by id %q", sess.RemoteRoot, sess.ID)
	}
	if !strings.Contains(sess.ConfigName, sess.ID) {
		t.Fatalf("config name %q not namespaced by id", sess.ConfigName)
	}
	if filepath.Dir(sess.LocalConfigPath()) != sess.LocalRoot {
		t.Fatalf("config path %q not under local root", sess.LocalConfigPath())
	}
}

func TestNew_UniquePerInvocation(t *testing.T) {
	a := New("/results", "remote")
	b := New("/results", "remote")
	if a.ID == b.ID {
		t.Fatalf("two invocations produced the same id %q", a.ID)
	}
}

func TestIterationDirs(t *testing.T) {
	if IterationDirName(0) != "iteration0" {
		t.Fatalf("unexpected name %q", IterationDirName(0))
	}
	sess := New("/results", "remote")
	dir := sess.LocalIterationDir(2)
	if filepath.Base(dir) != "iteration2" {
		t.Fatalf("unexpected iteration dir %q", dir)
	}
	if filepath.Dir(dir) != sess.LocalRoot {
		t.Fatalf("iteration dir %q not under session root", dir)
	}
}
