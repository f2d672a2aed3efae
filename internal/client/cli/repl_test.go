package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
}

func (f *fakeExec) record(name string, args ...string) error {
	f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}

func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}

func (f *fakeExec) List(ctx context.Context, args []string) error {
	return f.record("list", args...)
}

func (f *fakeExec) Refresh(ctx context.Context, args []string) error {
	return f.record("refresh", args...)
}

func (f *fakeExec) AddUser(ctx context.Context) error    { return f.record("add-user") }
func (f *fakeExec) AddCompany(ctx context.Context) error { return f.record("add-company") }
func (f *fakeExec) AddVehicle(ctx context.Context) error { return f.record("add-vehicle") }
func (f *fakeExec) AddPoint(ctx context.Context) error   { return f.record("add-point") }

func (f *fakeExec) Delete(ctx context.Context, args []string) error {
	return f.record("delete", args...)
}

func (f *fakeExec) Export(ctx context.Context, args []string) error {
	return f.record("export", args...)
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_Dispatch(t *testing.T) {
	out := captureOutput(t)

	input := strings.Join([]string{
		"help",
		"login",
		"",
		"help",
		"list companies",
		"l vehicles",
		"refresh users",
		"add-user",
		"add-company",
		"add-vehicle",
		"add-point",
		"delete companies c1",
		"rm points p1",
		"export vehicles save",
		"foobar",
		"logout",
		"exit",
		"list users",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "[online] " }, rdr(input))

	assert.Equal(t, []string{
		"login",
		"list companies",
		"list vehicles",
		"refresh users",
		"add-user",
		"add-company",
		"add-vehicle",
		"add-point",
		"delete companies c1",
		"delete points p1",
		"export vehicles save",
		"logout",
	}, exec.calls)

	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, helpLoggedOut)
	assert.Contains(t, joined, helpLoggedIn)
	assert.Contains(t, joined, "Unknown command: foobar")
	assert.Contains(t, joined, "ca [online] > ")
	assert.Equal(t, "Bye!", (*out)[len(*out)-1])
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	captureOutput(t)
	exec := &fakeExec{}

	runREPL(context.Background(), exec, func() string { return "" }, rdr("login"))
	assert.Equal(t, []string{"login"}, exec.calls)
}

func TestRunREPL_StopsWhenContextDone(t *testing.T) {
	captureOutput(t)
	exec := &fakeExec{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runREPL(ctx, exec, func() string { return "" }, rdr("login\nlogin\n"))
	assert.Empty(t, exec.calls)
}
