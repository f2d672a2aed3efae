package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/collectadmin/internal/client/client"
	"github.com/dmitrijs2005/collectadmin/internal/filex"
	"github.com/dmitrijs2005/collectadmin/internal/netx"
)

// Indirections over the prompt helpers so tests can script input.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// downloadFn fetches an exported snapshot; tests replace it.
var downloadFn = netx.Download

// exportDir receives downloaded snapshots, relative to the working directory.
const exportDir = "exports"

var errNotLoggedIn = errors.New("not logged in")

// field is one prompted input of an add-* command.
type field struct {
	key    string
	prompt string
	secret bool
}

var (
	userFields = []field{
		{key: "name", prompt: "Name"},
		{key: "email", prompt: "Email"},
		{key: "password", secret: true},
	}
	companyFields = []field{
		{key: "name", prompt: "Company name"},
		{key: "email", prompt: "Email"},
		{key: "address", prompt: "Address (optional)"},
		{key: "phoneNumber", prompt: "Phone number (optional)"},
	}
	vehicleFields = []field{
		{key: "name", prompt: "Vehicle name"},
		{key: "registrationNumber", prompt: "Registration number"},
		{key: "capacity", prompt: "Capacity"},
		{key: "companyId", prompt: "Company ID"},
	}
	pointFields = []field{
		{key: "name", prompt: "Collection point name"},
		{key: "latitude", prompt: "Latitude (-90..90)"},
		{key: "longitude", prompt: "Longitude (-180..180)"},
	}
)

func (a *App) fail(err error) error {
	printlnFn(describe(err))
	return err
}

func (a *App) requireLogin() error {
	if a.isLoggedIn() {
		return nil
	}
	printlnFn("Please log in first")
	return errNotLoggedIn
}

func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		printlnFn("Already logged in as", a.service.CurrentUser())
		return nil
	}

	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	user, err := a.service.Login(ctx, email, string(password))
	clear(password)
	if err != nil {
		return a.fail(err)
	}

	printlnFn("Logged in as", user.Name, "<"+user.Email+">")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.service.Logout(ctx); err != nil {
		return a.fail(err)
	}
	printlnFn("Logged out")
	return nil
}

func (a *App) List(ctx context.Context, args []string) error {
	return a.list(ctx, args, false)
}

func (a *App) Refresh(ctx context.Context, args []string) error {
	return a.list(ctx, args, true)
}

func (a *App) list(ctx context.Context, args []string, refresh bool) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) == 0 {
		printlnFn("Usage: list|refresh <users|companies|vehicles|points>")
		return client.ErrUnknownResource
	}
	r, err := client.ParseResource(args[0])
	if err != nil {
		return a.fail(err)
	}

	l, err := a.service.List(ctx, r, refresh)
	if err != nil {
		return a.fail(err)
	}
	printlnFn(formatListing(l))
	return nil
}

func (a *App) AddUser(ctx context.Context) error {
	return a.add(ctx, client.ResourceUsers, userFields)
}

func (a *App) AddCompany(ctx context.Context) error {
	return a.add(ctx, client.ResourceCompanies, companyFields)
}

func (a *App) AddVehicle(ctx context.Context) error {
	return a.add(ctx, client.ResourceVehicles, vehicleFields)
}

func (a *App) AddPoint(ctx context.Context) error {
	return a.add(ctx, client.ResourceCollectionPoints, pointFields)
}

// add prompts for fields and creates a record. Empty answers are sent as
// empty strings so the server reports every missing field at once.
func (a *App) add(ctx context.Context, r client.Resource, fields []field) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	in := make(map[string]string, len(fields))
	for _, f := range fields {
		if f.secret {
			pw, err := getPassword(a.out)
			if err != nil {
				return err
			}
			in[f.key] = string(pw)
			clear(pw)
			continue
		}
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		in[f.key] = v
	}

	row, err := a.service.Create(ctx, r, in)
	if err != nil {
		return a.fail(err)
	}
	printlnFn("Created", string(r), "record", cell(row, "id"))
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) == 0 {
		printlnFn("Usage: delete <users|companies|vehicles|points> <id>")
		return client.ErrUnknownResource
	}
	r, err := client.ParseResource(args[0])
	if err != nil {
		return a.fail(err)
	}

	var id string
	if len(args) > 1 {
		id = args[1]
	} else if id, err = getSimpleText(a.reader, "ID", a.out); err != nil {
		return err
	}

	if err := a.service.Delete(ctx, r, id); err != nil {
		return a.fail(err)
	}
	printlnFn("Deleted", id)
	return nil
}

func (a *App) Export(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) == 0 {
		printlnFn("Usage: export <users|companies|vehicles|points> [save]")
		return client.ErrUnknownResource
	}
	r, err := client.ParseResource(args[0])
	if err != nil {
		return a.fail(err)
	}

	res, err := a.service.Export(ctx, r)
	if err != nil {
		return a.fail(err)
	}
	printlnFn("Exported to", res.Key)
	printlnFn("Download (valid 15 minutes):", res.URL)

	if len(args) > 1 && args[1] == "save" {
		path, err := a.saveExport(ctx, res)
		if err != nil {
			printlnFn("Error: save export:", err)
			return err
		}
		printlnFn("Saved to", path)
	}
	return nil
}

// saveExport downloads the snapshot behind res into ./exports.
func (a *App) saveExport(ctx context.Context, res *client.ExportResult) (string, error) {
	name := filex.BaseName(res.Key)
	if name == "" {
		return "", fmt.Errorf("unusable object key %q", res.Key)
	}

	dir, err := filex.EnsureSubDir(exportDir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	_, err = downloadFn(ctx, &http.Client{Timeout: a.config.RequestTimeout}, res.URL, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}
