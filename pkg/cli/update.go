package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

const githubAPI = "https://api.github.com"

// githubRelease is the subset of the GitHub releases payload we read.
type githubRelease struct {
	TagName    string `json:"tag_name"`
	Name       string `json:"name"`
	HTMLURL    string `json:"html_url"`
	Draft      bool   `json:"draft"`
	Prerelease bool   `json:"prerelease"`
	Assets     []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

// semverRe finds v1.2.3 or 1.2.3 inside tag names like "imged-v1.2.3".
var semverRe = regexp.MustCompile(`v?\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?`)

func parseReleaseVersion(r githubRelease) (semver.Version, bool) {
	match := semverRe.FindString(r.TagName)
	if match == "" {
		match = semverRe.FindString(r.Name)
	}
	if match == "" {
		return semver.Version{}, false
	}
	v, err := semver.Parse(strings.TrimPrefix(match, "v"))
	if err != nil {
		return semver.Version{}, false
	}
	return v, true
}

// pickAsset prefers an asset built for this OS and architecture, then any
// asset naming an OS or architecture, then the first asset.
func pickAsset(r githubRelease) string {
	var fallback, first string
	for _, a := range r.Assets {
		name := strings.ToLower(a.Name)
		if first == "" {
			first = a.BrowserDownloadURL
		}
		if strings.Contains(name, runtime.GOOS) && strings.Contains(name, runtime.GOARCH) {
			return a.BrowserDownloadURL
		}
		if fallback == "" {
			for _, hint := range []string{"darwin", "linux", "windows", "amd64", "arm64"} {
				if strings.Contains(name, hint) {
					fallback = a.BrowserDownloadURL
					break
				}
			}
		}
	}
	if fallback != "" {
		return fallback
	}
	return first
}

// pickLatest returns the highest semver among published, non-prerelease
// releases. It reports false when none qualifies.
func pickLatest(releases []githubRelease) (*selfupdate.Release, bool) {
	type candidate struct {
		ver semver.Version
		rel githubRelease
	}
	var candidates []candidate
	for _, r := range releases {
		if r.Draft || r.Prerelease {
			continue
		}
		v, ok := parseReleaseVersion(r)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{ver: v, rel: r})
	}
	if len(candidates) == 0 {
		return nil, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ver.GT(candidates[j].ver)
	})
	best := candidates[0]
	return &selfupdate.Release{
		Version:  best.ver,
		AssetURL: pickAsset(best.rel),
		URL:      best.rel.HTMLURL,
		Name:     best.rel.Name,
	}, true
}

// Updater checks GitHub releases for a newer build and replaces the running
// executable when the user agrees.
type Updater struct {
	Repo    string // owner/name
	Current string
	APIBase string // defaults to https://api.github.com
	Client  *http.Client
	Out     io.Writer
	// Confirm asks a yes/no question; nil means never update.
	Confirm func(question string) (bool, error)
}

func (u *Updater) client() *http.Client {
	if u.Client != nil {
		return u.Client
	}
	return &http.Client{Timeout: 10 * time.Second}
}

// detectLatest queries the releases API. It tolerates tag prefixes that
// selfupdate.DetectLatest would reject.
func (u *Updater) detectLatest() (*selfupdate.Release, bool, error) {
	base := u.APIBase
	if base == "" {
		base = githubAPI
	}
	apiURL := fmt.Sprintf("%s/repos/%s/releases", strings.TrimSuffix(base, "/"), u.Repo)
	resp, err := u.client().Get(apiURL)
	if err != nil {
		return nil, false, fmt.Errorf("github API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed reading github response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("github API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var releases []githubRelease
	if err := json.Unmarshal(body, &releases); err != nil {
		return nil, false, fmt.Errorf("failed to decode github releases: %w", err)
	}
	latest, found := pickLatest(releases)
	return latest, found, nil
}

// Check reports the current and latest versions. It returns the release it
// would install, or nil when there is nothing newer or the user declined.
func (u *Updater) Check() (*selfupdate.Release, error) {
	fmt.Fprintf(u.Out, "Current version: %s\n", u.Current)
	latest, found, err := u.detectLatest()
	if err != nil {
		return nil, fmt.Errorf("update check failed: %w", err)
	}
	if !found {
		fmt.Fprintf(u.Out, "No releases found for %s.\n", u.Repo)
		return nil, nil
	}
	fmt.Fprintf(u.Out, "Latest version: %s\n", latest.Version)

	currentVer, perr := semver.Parse(strings.TrimPrefix(u.Current, "v"))
	if perr != nil {
		fmt.Fprintf(u.Out, "warning: could not parse current version %q: %v\n", u.Current, perr)
	} else if latest.Version.LTE(currentVer) {
		fmt.Fprintf(u.Out, "You are already running the latest version: %s.\n", currentVer)
		return nil, nil
	}

	if latest.AssetURL == "" {
		fmt.Fprintf(u.Out, "A new version (%s) is available but there is no downloadable asset.\n", latest.Version)
		if latest.URL != "" {
			fmt.Fprintf(u.Out, "Download it from %s\n", latest.URL)
		}
		return nil, nil
	}
	if u.Confirm == nil {
		return nil, nil
	}
	ok, err := u.Confirm(fmt.Sprintf("A new version (%s) is available. Update now? (y/N): ", latest.Version))
	if err != nil {
		return nil, fmt.Errorf("failed reading input: %w", err)
	}
	if !ok {
		fmt.Fprintln(u.Out, "Update cancelled.")
		return nil, nil
	}
	return latest, nil
}

// Apply downloads the release over the running executable and restarts it.
func (u *Updater) Apply(latest *selfupdate.Release) error {
	fmt.Fprintln(u.Out, "Updating...")
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}
	if err := selfupdate.UpdateTo(latest.AssetURL, exe); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	argv := append([]string{exe}, os.Args[1:]...)
	if err := syscall.Exec(exe, argv, os.Environ()); err != nil {
		// Exec only returns on error; start the new binary as a child instead.
		cmd := exec.Command(exe, os.Args[1:]...)
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if startErr := cmd.Start(); startErr != nil {
			fmt.Fprintf(u.Out, "Updated to version %s, but failed to restart automatically: %v; fallback start error: %v\n", latest.Version, err, startErr)
			fmt.Fprintln(u.Out, "Please restart the application manually.")
			return nil
		}
		os.Exit(0)
	}
	return nil
}

// CheckForUpdates runs Check and, when confirmed, Apply.
func (u *Updater) CheckForUpdates() error {
	latest, err := u.Check()
	if err != nil || latest == nil {
		return err
	}
	return u.Apply(latest)
}
