// Package launcher composes environment, sandbox policy, and process
// supervision to install and run Windows apps under wine or Proton.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/HasibAlTahsin/norun/internal/config"
	"github.com/HasibAlTahsin/norun/internal/logging"
	"github.com/HasibAlTahsin/norun/internal/profile"
	"github.com/HasibAlTahsin/norun/internal/sandbox"
	"github.com/HasibAlTahsin/norun/internal/shortcuts"
)

// cliUtilityNames are command-line style tools that should not be
// remembered as an app's GUI entry point.
var cliUtilityNames = map[string]struct{}{
	"7z.exe":         {},
	"cmd.exe":        {},
	"powershell.exe": {},
}

// Orchestrator satisfies install and run requests. It is the only
// component that knows how config, installer, and log paths resolve.
type Orchestrator struct {
	Config     *config.Config
	Apps       *config.AppStore
	Host       sandbox.Host
	Supervisor *Supervisor
	Logger     *slog.Logger
}

// New builds an orchestrator against the real host.
func New(cfg *config.Config, apps *config.AppStore) *Orchestrator {
	host := sandbox.OSHost{}
	return &Orchestrator{
		Config:     cfg,
		Apps:       apps,
		Host:       host,
		Supervisor: &Supervisor{Host: host, Logger: logging.Logger()},
		Logger:     logging.Logger(),
	}
}

func (o *Orchestrator) host() sandbox.Host {
	if o.Host != nil {
		return o.Host
	}
	return sandbox.OSHost{}
}

// policyFor builds a fresh sandbox policy from the globally configured
// extra bind directives plus any persisted for the app.
func (o *Orchestrator) policyFor(app *config.AppConfig, mode sandbox.Mode, allowDownloads bool) (*sandbox.Policy, error) {
	extra, err := sandbox.ParseDirectives(o.Config.Sandbox.ExtraBinds)
	if err != nil {
		return nil, fmt.Errorf("parse configured extra binds: %w", err)
	}
	appExtra, err := sandbox.ParseDirectives(app.ExtraBinds)
	if err != nil {
		return nil, fmt.Errorf("parse app extra binds: %w", err)
	}
	return &sandbox.Policy{
		Mode:           mode,
		AllowDownloads: allowDownloads,
		DataRoot:       o.Config.HomeDir,
		Extra:          append(extra, appExtra...),
	}, nil
}

// installPolicy returns the policy for a sandboxed installer run: the
// mode is forced to full even when the app runs strict (installers are
// fragile under restriction), and Downloads access follows the
// configured sandbox default so installers can read from ~/Downloads
// unless the operator turned that off.
func (o *Orchestrator) installPolicy(app *config.AppConfig) (*sandbox.Policy, error) {
	if app.SandboxMode == string(sandbox.ModeStrict) {
		o.Logger.Warn("forcing full sandbox mode for installer", "app", app.Name, "run_mode", app.SandboxMode)
	}
	return o.policyFor(app, sandbox.ModeFull, o.Config.Sandbox.AllowDownloads)
}

// CreateApp validates inputs, creates the app's prefix directory, and
// persists its config.
func (o *Orchestrator) CreateApp(name, profileName, runner string, sandboxed bool, sandboxMode string) (*config.AppConfig, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("app name is required")
	}
	if _, ok := profile.Lookup(profileName); !ok {
		return nil, fmt.Errorf("unknown profile %q (choose from %s)", profileName, strings.Join(profile.Names(), ", "))
	}
	if runner != config.RunnerWine && runner != config.RunnerProton {
		return nil, fmt.Errorf("runner must be %s or %s (got %q)", config.RunnerWine, config.RunnerProton, runner)
	}
	if _, err := sandbox.ParseMode(sandboxMode); err != nil {
		return nil, err
	}

	if err := o.Config.EnsureDirs(); err != nil {
		return nil, err
	}
	prefixDir := o.Config.PrefixDir(name)
	if err := os.MkdirAll(prefixDir, 0o755); err != nil {
		return nil, fmt.Errorf("create prefix dir %q: %w", prefixDir, err)
	}

	app := &config.AppConfig{
		Name:        name,
		Profile:     profileName,
		Runner:      runner,
		Prefix:      prefixDir,
		Sandbox:     sandboxed,
		SandboxMode: sandboxMode,
	}
	if err := o.Apps.Save(app); err != nil {
		return nil, err
	}
	return app, nil
}

// InitPrefix boots the app's prefix and applies its profile. Prefix
// initialization always runs unsandboxed: winetricks needs full host
// access to download and register packages.
func (o *Orchestrator) InitPrefix(ctx context.Context, app *config.AppConfig) error {
	prof, ok := profile.Lookup(app.Profile)
	if !ok {
		return fmt.Errorf("unknown profile %q", app.Profile)
	}

	release, err := lockPrefix(app.Prefix)
	if err != nil {
		return err
	}
	defer release()

	env := ComposeEnv(os.Environ(), app.Prefix, o.Config.CacheDir())
	logPath := o.Config.InstallLogPath(app.Name)

	o.Logger.Info("initializing prefix", "app", app.Name, "prefix", app.Prefix)
	if err := o.runLogged(ctx, []string{"wineboot", "-u"}, env, logPath, nil); err != nil {
		return err
	}

	o.Logger.Info("setting windows version", "version", prof.WindowsVersion)
	if err := o.runLogged(ctx, []string{"winetricks", "-q", prof.WindowsVersion}, env, logPath, nil); err != nil {
		return err
	}

	if len(prof.DependencyPackages) > 0 {
		o.Logger.Info("installing dependencies", "packages", strings.Join(prof.DependencyPackages, ", "))
		cmd := append([]string{"winetricks", "-q"}, prof.DependencyPackages...)
		if err := o.runLogged(ctx, cmd, env, logPath, nil); err != nil {
			return err
		}
	}

	if len(prof.GraphicsPackages) > 0 {
		o.Logger.Info("enabling graphics layers", "packages", strings.Join(prof.GraphicsPackages, ", "))
		cmd := append([]string{"winetricks", "-q"}, prof.GraphicsPackages...)
		if err := o.runLogged(ctx, cmd, env, logPath, nil); err != nil {
			return err
		}
	}

	return nil
}

// ResolveInstaller expands a leading ~, resolves glob patterns to the
// lexicographically first match, and verifies the result exists.
func ResolveInstaller(path string) (string, error) {
	raw := expandUser(path)

	if strings.ContainsAny(raw, "*?[") {
		matches, err := filepath.Glob(raw)
		if err != nil {
			return "", fmt.Errorf("bad installer pattern %q: %w", raw, err)
		}
		if len(matches) == 0 {
			return "", fmt.Errorf("%w: %s", ErrNoGlobMatch, raw)
		}
		sort.Strings(matches)
		raw = matches[0]
	}

	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", fmt.Errorf("resolve installer path %q: %w", raw, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInstallerNotFound, abs)
	}
	return abs, nil
}

func expandUser(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Install runs the installer for app, or in portable mode copies it
// into the app's private directory and records its Windows path. When
// the installer is sandboxed the policy is forced to full mode even if
// the app's run-time mode is strict: installers are fragile under
// restriction.
func (o *Orchestrator) Install(ctx context.Context, app *config.AppConfig, installerPath string, portable, sandboxInstall bool) error {
	installer, err := ResolveInstaller(installerPath)
	if err != nil {
		return err
	}
	env := ComposeEnv(os.Environ(), app.Prefix, o.Config.CacheDir())

	// Installing and the portable winepath conversion both touch the
	// prefix, so the whole operation holds the lock.
	release, err := lockPrefix(app.Prefix)
	if err != nil {
		return err
	}
	defer release()

	if portable {
		appDir := o.Config.AppDir(app.Name)
		if err := os.MkdirAll(appDir, 0o755); err != nil {
			return fmt.Errorf("create app dir %q: %w", appDir, err)
		}
		dst := filepath.Join(appDir, filepath.Base(installer))
		o.Logger.Info("portable mode: copying executable", "src", installer, "dst", dst)
		if err := copyFile(installer, dst); err != nil {
			return err
		}
		if winPath, err := o.winePath(ctx, env, "-w", dst); err == nil && winPath != "" {
			app.LastExe = winPath
			return o.Apps.Save(app)
		}
		return nil
	}

	var policy *sandbox.Policy
	if sandboxInstall {
		policy, err = o.installPolicy(app)
		if err != nil {
			return err
		}
	}

	o.Logger.Info("running installer", "app", app.Name, "installer", installer)
	return o.runLogged(ctx, []string{"wine", installer}, env, o.Config.InstallLogPath(app.Name), policy)
}

// Run launches the app's target executable under its persisted runner
// and sandbox settings. The target is the explicit exe argument, else
// the saved last executable, else the autodetected one.
func (o *Orchestrator) Run(ctx context.Context, app *config.AppConfig, exe string, desktop *DesktopSpec) (LaunchResult, error) {
	target := exe
	if target == "" {
		target = app.LastExe
	}
	if target == "" {
		if guessed := DetectExe(app.Prefix); guessed != "" {
			o.Logger.Info("autodetected executable", "app", app.Name, "exe", guessed)
			target = guessed
		}
	}
	if target == "" {
		return LaunchResult{}, fmt.Errorf(`%w (use: norun run %s --exe "C:\Path\app.exe")`, ErrNoExecutable, app.Name)
	}

	if !isCLIUtility(target) && app.LastExe != target {
		app.LastExe = target
		if err := o.Apps.Save(app); err != nil {
			return LaunchResult{}, err
		}
	}

	var policy *sandbox.Policy
	if app.Sandbox {
		mode, err := sandbox.ParseMode(app.SandboxMode)
		if err != nil {
			return LaunchResult{}, err
		}
		policy, err = o.policyFor(app, mode, false)
		if err != nil {
			return LaunchResult{}, err
		}
	}

	env := ComposeEnv(os.Environ(), app.Prefix, o.Config.CacheDir())

	var command []string
	switch app.Runner {
	case config.RunnerProton:
		if _, err := o.host().LookPath("umu-run"); err != nil {
			return LaunchResult{}, fmt.Errorf("%w: umu-run (install umu-launcher first)", ErrCommandNotFound)
		}
		unixPath := target
		if strings.Contains(target, ":") && strings.Contains(target, `\`) {
			if converted, err := o.winePath(ctx, env, "-u", target); err == nil && converted != "" {
				unixPath = converted
			}
		}
		o.Logger.Info("running with proton", "app", app.Name, "exe", unixPath)
		command = []string{"umu-run", unixPath}
	default:
		o.Logger.Info("running with wine", "app", app.Name, "exe", target)
		command = []string{"wine"}
		if desktop != nil {
			command = append(command, "explorer", desktop.WineArg())
		}
		command = append(command, target)
	}

	release, err := lockPrefix(app.Prefix)
	if err != nil {
		return LaunchResult{}, err
	}
	defer release()

	result, err := o.Supervisor.Run(ctx, command, env, o.Config.RunLogPath(app.Name), policy)
	if err != nil {
		return result, err
	}
	if result.ExitCode != 0 {
		return result, &LaunchError{Cmd: command[0], ExitCode: result.ExitCode, LogPath: result.LogPath}
	}
	return result, nil
}

// OpenInstaller creates an app named after the installer with default
// settings, initializes its prefix, and runs the installer.
func (o *Orchestrator) OpenInstaller(ctx context.Context, installerPath string) (*config.AppConfig, error) {
	installer, err := ResolveInstaller(installerPath)
	if err != nil {
		return nil, err
	}
	name, err := o.appNameForInstaller(installer)
	if err != nil {
		return nil, err
	}

	app, err := o.CreateApp(name, "general", config.RunnerWine, false, string(sandbox.ModeFull))
	if err != nil {
		return nil, err
	}
	if err := o.InitPrefix(ctx, app); err != nil {
		return nil, err
	}
	if err := o.Install(ctx, app, installer, false, false); err != nil {
		return nil, err
	}
	return app, nil
}

// appNameForInstaller derives a unique app name from the installer
// file name: lowercased stem, spaces to underscores, capped at 32
// characters, numeric suffix on collision.
func (o *Orchestrator) appNameForInstaller(installer string) (string, error) {
	stem := strings.TrimSuffix(filepath.Base(installer), filepath.Ext(installer))
	name := strings.ToLower(strings.ReplaceAll(stem, " ", "_"))
	if len(name) > 32 {
		name = name[:32]
	}
	base := name
	for suffix := 2; ; suffix++ {
		existing, err := o.Apps.Load(name)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return name, nil
		}
		name = fmt.Sprintf("%s_%d", base, suffix)
	}
}

// Uninstall removes the app's prefix, private data, logs, and desktop
// shortcut. Removal is best effort; a failure on one resource does not
// stop the others.
func (o *Orchestrator) Uninstall(app *config.AppConfig) error {
	if err := os.RemoveAll(app.Prefix); err != nil {
		o.Logger.Warn("failed to remove prefix", "app", app.Name, "err", err)
	}
	if err := o.Apps.Delete(app.Name); err != nil {
		o.Logger.Warn("failed to remove app data", "app", app.Name, "err", err)
	}
	if err := os.RemoveAll(o.Config.AppLogDir(app.Name)); err != nil {
		o.Logger.Warn("failed to remove logs", "app", app.Name, "err", err)
	}
	if appsDir, err := shortcuts.DefaultApplicationsDir(); err == nil {
		if err := shortcuts.Remove(appsDir, app.Name); err != nil {
			o.Logger.Warn("failed to remove desktop shortcut", "app", app.Name, "err", err)
		}
	}
	return nil
}

// isCLIUtility reports whether the target's base name is a known
// command-line style tool not worth remembering as the last executable.
func isCLIUtility(target string) bool {
	_, ok := cliUtilityNames[strings.ToLower(winBaseName(target))]
	return ok
}

// winBaseName returns the final component of a path in either Windows
// or unix syntax.
func winBaseName(path string) string {
	if i := strings.LastIndexAny(path, `\/`); i >= 0 {
		return path[i+1:]
	}
	return path
}

// winePath converts a path between unix and Windows syntax via the
// prefix's winepath tool.
func (o *Orchestrator) winePath(ctx context.Context, env []string, flag, path string) (string, error) {
	resolved, err := o.host().LookPath("winepath")
	if err != nil {
		return "", fmt.Errorf("%w: winepath", ErrCommandNotFound)
	}
	cmd := exec.CommandContext(ctx, resolved, flag, path)
	cmd.Env = env
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("winepath %s %s: %w", flag, path, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// runLogged runs cmd and converts a non-zero exit into a LaunchError.
func (o *Orchestrator) runLogged(ctx context.Context, cmd []string, env []string, logPath string, policy *sandbox.Policy) error {
	result, err := o.Supervisor.Run(ctx, cmd, env, logPath, policy)
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return &LaunchError{Cmd: cmd[0], ExitCode: result.ExitCode, LogPath: result.LogPath}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %q: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %q: %w", src, err)
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create %q: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy to %q: %w", dst, err)
	}
	return out.Close()
}
