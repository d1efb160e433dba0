package normalizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	resolvable map[string]bool
}

func (f *fakeResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	if f.resolvable[host] {
		return []string{"93.184.216.34"}, nil
	}
	return nil, assertErr{}
}

type assertErr struct{}

func (assertErr) Error() string { return "no such host" }

func TestNormalize_PrependsSchemeAndLowercasesHost(t *testing.T) {
	n := New(&fakeResolver{}, nil, nil)
	res := n.Normalize(context.Background(), "EXAMPLE.com/Contact")
	require.False(t, res.Invalid)
	assert.Equal(t, "http://example.com", res.BaseCanonical)
	assert.Equal(t, "http://example.com/Contact", res.PathfulCanonical)
}

func TestNormalize_RejectsLocalhost(t *testing.T) {
	n := New(&fakeResolver{}, nil, nil)
	res := n.Normalize(context.Background(), "http://localhost:8080")
	assert.True(t, res.Invalid)
	assert.Equal(t, "InvalidURL", res.InvalidReason)
}

func TestNormalize_RejectsNumericIPHost(t *testing.T) {
	n := New(&fakeResolver{}, nil, nil)
	res := n.Normalize(context.Background(), "http://127.0.0.1/")
	assert.True(t, res.Invalid)
}

func TestNormalize_RejectsUnsupportedScheme(t *testing.T) {
	n := New(&fakeResolver{}, nil, nil)
	res := n.Normalize(context.Background(), "ftp://example.com")
	assert.True(t, res.Invalid)
	assert.Equal(t, "UnsupportedScheme", res.InvalidReason)
}

func TestNormalize_EmptyAfterCleaning(t *testing.T) {
	n := New(&fakeResolver{}, nil, nil)
	res := n.Normalize(context.Background(), "   ")
	assert.True(t, res.Invalid)
	assert.Equal(t, "EmptyAfterCleaning", res.InvalidReason)
}

func TestNormalize_TLDProbing_AdoptsFirstResolvingTLD(t *testing.T) {
	n := New(&fakeResolver{resolvable: map[string]bool{"acme.com": true}}, []string{"de", "com"}, nil)
	res := n.Normalize(context.Background(), "acme")
	require.False(t, res.Invalid)
	assert.Equal(t, "http://acme.com", res.BaseCanonical)
	assert.False(t, res.TLDProbeWarning)
}

func TestNormalize_TLDProbing_ExhaustionKeepsOriginalHostWithWarning(t *testing.T) {
	n := New(&fakeResolver{}, []string{"de", "com"}, nil)
	res := n.Normalize(context.Background(), "acme")
	require.False(t, res.Invalid)
	assert.Equal(t, "http://acme", res.BaseCanonical)
	assert.True(t, res.TLDProbeWarning)
}

func TestHyphenSimplifyCandidates(t *testing.T) {
	got := HyphenSimplifyCandidates("foo-bar.de")
	require.Len(t, got, 1)
	assert.Equal(t, "bar.de", got[0])
}

func TestTLDSwapCandidate(t *testing.T) {
	swapped, ok := TLDSwapCandidate("foo-bar.de")
	assert.True(t, ok)
	assert.Equal(t, "foo-bar.com", swapped)

	_, ok = TLDSwapCandidate("foo.com")
	assert.False(t, ok)
}

func TestCanonicalizeFetched_DropsDefaultPort(t *testing.T) {
	pathful, base, ok := CanonicalizeFetched("https://WWW.Example.com:443/Contact/?b=2&a=1")
	require.True(t, ok)
	assert.Equal(t, "https://www.example.com", base)
	assert.Equal(t, "https://www.example.com/Contact/?b=2&a=1", pathful)
}
