package bioguide

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/z3c0/vistos-legacy/internal/components/failure"
	"github.com/z3c0/vistos-legacy/internal/components/httpcache"
	"github.com/z3c0/vistos-legacy/internal/congress"
	"github.com/z3c0/vistos-legacy/internal/records"
	"github.com/z3c0/vistos-legacy/internal/search"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

//go:embed testdata
var testdata embed.FS

func fixture(t testing.TB, name string) []byte {
	t.Helper()
	contents, err := fs.ReadFile(testdata, "testdata/"+name)
	require.NoError(t, err)
	return contents
}

type fakeDirectory struct {
	t          testing.TB
	lock       sync.Mutex
	searches   []map[string]string
	memberHits atomic.Int64
	failSearch bool
	slowSearch time.Duration
}

func (d *fakeDirectory) searchForms() []map[string]string {
	d.lock.Lock()
	defer d.lock.Unlock()
	return append([]map[string]string(nil), d.searches...)
}

func (d *fakeDirectory) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/":
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "s1", Path: "/"})
		w.Write(fixture(d.t, "root.html"))

	case r.URL.Path == "/Home/SearchResults" && r.Method == http.MethodPost:
		if d.slowSearch > 0 {
			time.Sleep(d.slowSearch)
		}
		if d.failSearch {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.PostForm.Get("__RequestVerificationToken") != "token-abc123" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		form := map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		d.lock.Lock()
		d.searches = append(d.searches, form)
		d.lock.Unlock()
		w.Write(fixture(d.t, "results_page1.html"))

	case r.URL.Path == "/Home/SearchResults" && r.Method == http.MethodGet:
		cookie, err := r.Cookie("session")
		if err != nil || cookie.Value != "s1" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if r.URL.Query().Get("page") != "2" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(fixture(d.t, "results_page2.html"))

	case strings.HasPrefix(r.URL.Path, "/Static_Files/data/"):
		contents, err := fs.ReadFile(testdata, "testdata/data/"+strings.TrimPrefix(r.URL.Path, "/Static_Files/data/"))
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		d.memberHits.Add(1)
		w.Header().Set("content-type", "application/xml")
		w.Write(contents)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, opts ClientOptions) (*Client, *fakeDirectory) {
	t.Helper()
	directory := &fakeDirectory{t: t}
	server := httptest.NewServer(directory)
	t.Cleanup(server.Close)

	opts.BaseUrl = server.URL
	opts.RequestsPerSecond = 1000
	client, err := NewClient(opts)
	require.NoError(t, err)
	return client, directory
}

func ids(entries []records.RawEntry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Identifier)
	}
	return out
}

func TestFetchMember(t *testing.T) {
	client, _ := newTestClient(t, ClientOptions{})

	entries, found, err := client.FetchMember(context.Background(), "M000355")
	require.NoError(t, err)
	require.True(t, found)

	base := records.RawEntry{
		Source:     records.SourceBioguide,
		Identifier: "M000355",
		FullName:   "MCCONNELL, Addison Mitchell (Mitch)",
		FirstName:  "Addison",
		MiddleName: "Mitchell",
		Nickname:   "Mitch",
		LastName:   "Mcconnell",
		BirthYear:  "1942",
		Biography:  "a Senator from Kentucky; born in Sheffield, Colbert County, Ala., February 20, 1942",
		Position:   "senator",
		Party:      "republican",
		State:      "KY",
	}
	first, second := base, base
	first.Congress, first.TermStart, first.TermEnd = 114, 2015, 2017
	second.Congress, second.TermStart, second.TermEnd = 116, 2019, 2021

	if diff := cmp.Diff([]records.RawEntry{first, second}, entries); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchMemberRecoversFromInvalidCharacters(t *testing.T) {
	client, _ := newTestClient(t, ClientOptions{})

	entries, found, err := client.FetchMember(context.Background(), "P000197")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, entries, 2)
	require.Equal(t, "a Representative from California; born in Baltimore, Md., March 26, 1940", entries[0].Biography)
	require.Equal(t, "speaker of the house", entries[1].Position)
}

func TestFetchMemberNotFound(t *testing.T) {
	client, _ := newTestClient(t, ClientOptions{})

	entries, found, err := client.FetchMember(context.Background(), "Z999999")
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, entries)
}

func TestFetchMemberRejectsMalformedIdentifier(t *testing.T) {
	client, directory := newTestClient(t, ClientOptions{})

	_, _, err := client.FetchMember(context.Background(), "../etc")
	require.True(t, failure.Is(err, failure.KindValidation))
	require.Zero(t, directory.memberHits.Load())
}

func TestFetchMemberUsesCache(t *testing.T) {
	client, directory := newTestClient(t, ClientOptions{Cache: httpcache.NewMemory(16, time.Hour)})

	for i := 0; i < 3; i++ {
		_, found, err := client.FetchMember(context.Background(), "S000033")
		require.NoError(t, err)
		require.True(t, found)
	}
	require.EqualValues(t, 1, directory.memberHits.Load())
}

func TestKeepCompoundNames(t *testing.T) {
	client, _ := newTestClient(t, ClientOptions{KeepCompoundNames: true})

	entries, _, err := client.FetchMember(context.Background(), "S000033")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "SANDERS, Bernard (Bernie)", entries[0].FullName)
	require.Empty(t, entries[0].FirstName)
	require.Empty(t, entries[0].LastName)
	require.Empty(t, entries[0].Nickname)
	require.Empty(t, entries[0].Biography)
}

func TestFetchCongressFollowsPagination(t *testing.T) {
	client, directory := newTestClient(t, ClientOptions{})

	entries, err := client.FetchCongress(context.Background(), congress.Identity{Number: 116, StartYear: 2019, EndYear: 2021})
	require.NoError(t, err)
	require.Equal(t, []string{"M000355", "M000355", "P000197", "P000197", "S000033"}, ids(entries))

	require.Len(t, directory.searchForms(), 1)
	require.Equal(t, "116", directory.searchForms()[0][search.FieldCongress])
	require.Equal(t, "submit", directory.searchForms()[0]["submitButton"])
}

func TestFetchContinentalCongressSearchesByPosition(t *testing.T) {
	client, directory := newTestClient(t, ClientOptions{SkipDetails: true})

	_, err := client.FetchCongress(context.Background(), congress.Identity{Number: 0, StartYear: 1786, EndYear: 1789})
	require.NoError(t, err)
	require.Len(t, directory.searchForms(), 2)
	require.Equal(t, "ContCong", directory.searchForms()[0][search.FieldPosition])
	require.Equal(t, "Delegate", directory.searchForms()[1][search.FieldPosition])
	require.Equal(t, "0", directory.searchForms()[1][search.FieldCongress])
	require.Zero(t, directory.memberHits.Load())
}

func TestSearchWithoutDetails(t *testing.T) {
	client, directory := newTestClient(t, ClientOptions{SkipDetails: true})

	query, err := search.Build(search.Criteria{LastName: "pel"})
	require.NoError(t, err)
	entries, err := client.Search(context.Background(), query)
	require.NoError(t, err)
	require.Zero(t, directory.memberHits.Load())

	require.Len(t, entries, 4)
	speaker := entries[2]
	require.Equal(t, "P000197", speaker.Identifier)
	require.Equal(t, "speaker of the house", speaker.Position)
	require.Equal(t, "Nancy", speaker.FirstName)
	require.Equal(t, "Pelosi", speaker.LastName)
	require.Equal(t, "1940", speaker.BirthYear)
	require.Empty(t, speaker.DeathYear)
	require.Equal(t, 2019, speaker.TermStart)
	require.Equal(t, 2021, speaker.TermEnd)

	if diff := cmp.Diff(
		records.RawEntry{Identifier: "S000033", FullName: "SANDERS, Bernard (Bernie)", FirstName: "Bernard", Nickname: "Bernie", LastName: "Sanders"},
		entries[3],
		cmpopts.IgnoreFields(records.RawEntry{}, "Source", "BirthYear", "Position", "Party", "State", "Congress", "TermStart", "TermEnd"),
	); diff != "" {
		t.Fatalf("row entry mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "independent", entries[3].Party)
	require.Equal(t, "pel", directory.searchForms()[0][search.FieldLastName])
}

func TestSearchFailureIsConnectionError(t *testing.T) {
	client, directory := newTestClient(t, ClientOptions{})
	directory.failSearch = true

	query, err := search.Build(search.Criteria{LastName: "x"})
	require.NoError(t, err)
	_, err = client.Search(context.Background(), query)
	require.Error(t, err)
	require.True(t, failure.IsRetryable(err))
}

func TestTimeoutIsConnectionError(t *testing.T) {
	client, directory := newTestClient(t, ClientOptions{Timeout: 50 * time.Millisecond})
	directory.slowSearch = 500 * time.Millisecond

	query, err := search.Build(search.Criteria{LastName: "x"})
	require.NoError(t, err)
	_, err = client.Search(context.Background(), query)
	require.True(t, failure.Is(err, failure.KindConnection))
}

func TestUnreachableIsConnectionError(t *testing.T) {
	client, err := NewClient(ClientOptions{BaseUrl: "http://127.0.0.1:1", Timeout: time.Second, RequestsPerSecond: 1000})
	require.NoError(t, err)

	_, _, err = client.FetchMember(context.Background(), "M000355")
	require.True(t, failure.IsRetryable(err))
}
