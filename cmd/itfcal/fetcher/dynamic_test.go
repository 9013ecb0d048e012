package fetcher

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/itfcal/pkg/fetcher"
)

func TestFindChromePath_FirstMatchWins(t *testing.T) {
	orig := lookPath
	defer func() { lookPath = orig }()

	lookPath = func(name string) (string, error) {
		if name == "chromium" || name == "/usr/bin/chromium" {
			return "/usr/bin/chromium", nil
		}
		return "", exec.ErrNotFound
	}

	assert.Equal(t, "/usr/bin/chromium", FindChromePath())
}

func TestFindChromePath_NotFound(t *testing.T) {
	orig := lookPath
	defer func() { lookPath = orig }()

	lookPath = func(string) (string, error) { return "", exec.ErrNotFound }

	assert.Empty(t, FindChromePath())
}

func TestNewDynamicBrowser_Defaults(t *testing.T) {
	b := NewDynamicBrowser(Config{ChromePath: "/opt/chrome"})

	assert.Equal(t, "dynamic", b.Type())
	assert.Equal(t, fetcher.DefaultUserAgent, b.config.UserAgent)
	assert.Equal(t, DefaultConfig().ConsentTimeout, b.config.ConsentTimeout)
	assert.Equal(t, DefaultConfig().ProbeTimeout, b.config.ProbeTimeout)
	assert.Equal(t, "/opt/chrome", b.config.ChromePath)
}

func TestAllocatorOptions_Stealth(t *testing.T) {
	plain := allocatorOptions(Config{UserAgent: "ua"})
	stealth := allocatorOptions(Config{UserAgent: "ua", Stealth: true, ChromePath: "/opt/chrome"})

	assert.Len(t, stealth, len(plain)+len(stealthAllocatorOptions())+1)
}

func TestClassifyError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := classifyError(ctx, context.DeadlineExceeded)
	assert.True(t, errors.Is(err, fetcher.ErrNavigationTimeout))

	err = classifyError(ctx, errors.New("net::ERR_NAME_NOT_RESOLVED"))
	assert.True(t, errors.Is(err, fetcher.ErrNavigationFailure))
	assert.False(t, errors.Is(err, fetcher.ErrNavigationTimeout))
}

func TestDynamicBrowser_ImplementsBrowser(t *testing.T) {
	var _ fetcher.Browser = (*DynamicBrowser)(nil)
	var _ fetcher.Session = (*dynamicSession)(nil)
}
