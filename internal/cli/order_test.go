package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"hope-store/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runOrder(t *testing.T, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewOrderCommand(opts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestOrder_Link(t *testing.T) {
	opts := testOptions(t, "text")

	out, err := runOrder(t, opts, "link", "iphone-12")
	require.NoError(t, err)
	assert.Equal(t,
		"https://wa.me/27815909191?text=Hi%20Wandile%2C%20i%20am%20contacting%20you%20regarding%20the%20iPhone%2012%2C%2064GB%2C%20R%203000%20in%20price%20i%20would%20like%20to%20know%20available%20colors%20and%20continue%20with%20buying\n",
		out)
}

func TestOrder_StartWithoutAPI(t *testing.T) {
	opts := testOptions(t, "json")

	out, err := runOrder(t, opts, "start", "usb-c-20w-charger")
	require.NoError(t, err)

	var resp struct {
		Data OrderView `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "usb-c-20w-charger", resp.Data.ProductID)
	assert.Equal(t, "20W USB-C Power Adapter", resp.Data.Model)
	assert.Equal(t, "Storage option", resp.Data.Storage)
	assert.Contains(t, resp.Data.CodeImageURL, "size=160x160")
}

func TestOrder_StartLogsInquiry(t *testing.T) {
	var (
		mu  sync.Mutex
		got []model.Inquiry
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var inquiry model.Inquiry
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&inquiry))
		mu.Lock()
		got = append(got, inquiry)
		mu.Unlock()
		w.Write([]byte(`{"ok":true,"logged":true}`))
	}))
	defer srv.Close()

	opts := testOptions(t, "text")
	opts.APIURL = srv.URL

	out, err := runOrder(t, opts, "start", "iphone-13")
	require.NoError(t, err)
	assert.Contains(t, out, "Order: iPhone 13 (128GB, R 5200)")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, "iphone-13", got[0].ItemID)
	assert.Equal(t, "Apple iPhone 13", got[0].Model)
	assert.Contains(t, got[0].WhatsappURL, "https://wa.me/27815909191?text=")
}

func TestOrder_LogFailureDoesNotFailOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	opts := testOptions(t, "text")
	opts.APIURL = srv.URL

	out, err := runOrder(t, opts, "start", "iphone-12")
	require.NoError(t, err)
	assert.Contains(t, out, "Link: https://wa.me/")
}

func TestOrder_UnknownProduct(t *testing.T) {
	opts := testOptions(t, "text")

	_, err := runOrder(t, opts, "link", "nokia-3310")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
