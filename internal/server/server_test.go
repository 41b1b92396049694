package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/cryptograss/stonemint/pkg/showminting"
	"github.com/cryptograss/stonemint/pkg/showminting/chain"
)

const contractLink = "https://sepolia-optimism.etherscan.io/address/0xdFa0f0633514d10Dab3FB9B2bcac17f0b883ee0a#code"

var testSender = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

// mockSubmitter records the calls, like chain.EthSubmitter it exposes the
// contract function so that values are checked against its input types.
type mockSubmitter struct {
	calls [][]any
	err   error
}

func (m *mockSubmitter) Method() abi.Method {
	contractABI, err := chain.LoadABI("")
	if err != nil {
		panic(err)
	}
	method, err := chain.DefaultConfig().Method(contractABI)
	if err != nil {
		panic(err)
	}
	return method
}

func (m *mockSubmitter) Transact(ctx context.Context, args ...any) (*chain.Submission, error) {
	m.calls = append(m.calls, args)
	if m.err != nil {
		return nil, m.err
	}
	return &chain.Submission{TxHash: common.HexToHash("0x01"), From: testSender}, nil
}

func newTestServer(t *testing.T, s showminting.Submitter) *httptest.Server {
	t.Helper()
	adapter, err := showminting.NewAdapter(chain.DefaultConfig(), s)
	require.NoError(t, err)
	srv, err := New(adapter)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func validForm() url.Values {
	return url.Values{
		showminting.FieldArtistID:      {"5"},
		showminting.FieldBlockHeight:   {"1000"},
		showminting.FieldShapes:        {"10\r\n20"},
		showminting.FieldNumberOfSets:  {"3"},
		showminting.FieldStonePriceEth: {"0.01"},
		showminting.FieldSecrets:       {"x\r\ny"},
	}
}

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(b)
}

func TestNew_NilAdapter(t *testing.T) {
	_, err := New(nil)
	require.EqualError(t, err, "adapter is nil")
}

func TestFormPage(t *testing.T) {
	ts := newTestServer(t, &mockSubmitter{})

	res, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, TextHtml, res.Header.Get(ContentType))

	body := readBody(t, res)
	for _, id := range []string{"artist_id", "blockheight", "shapes", "numberOfSets", "stonePriceEth", "rabbitSecrets", "makeShowAvailableForStoneMinting"} {
		require.Contains(t, body, `id="`+id+`"`)
	}
	require.Contains(t, body, `<a id="contractEtherscanLink" href="`+contractLink+`"`)
	require.Contains(t, body, `content="`+chain.DefaultWalletProjectID+`"`)
}

func TestSubmitForm_OK(t *testing.T) {
	s := &mockSubmitter{}
	ts := newTestServer(t, s)

	res, err := http.PostForm(ts.URL+"/", validForm())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	body := readBody(t, res)

	require.Len(t, s.calls, 1)
	require.Equal(t, []common.Hash{showminting.HashSecret("x"), showminting.HashSecret("y")}, s.calls[0][2])
	require.Equal(t, []int64{10, 20}, s.calls[0][4])

	txHash := common.HexToHash("0x01").Hex()
	require.Contains(t, body, `id="txExplorerLink" href="https://sepolia-optimism.etherscan.io/tx/`+txHash+`"`)
	require.Contains(t, body, testSender.Hex())
	// submitted values are kept, secrets are not
	require.Contains(t, body, `value="1000"`)
	require.NotContains(t, body, "x\r\ny")
}

func TestSubmitForm_InvalidInput(t *testing.T) {
	s := &mockSubmitter{}
	ts := newTestServer(t, s)

	form := validForm()
	form.Set(showminting.FieldArtistID, "abc")
	form.Set(showminting.FieldShapes, "1\n\n2")

	res, err := http.PostForm(ts.URL+"/", form)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	body := readBody(t, res)
	require.Empty(t, s.calls)
	require.Contains(t, body, "artist_id: not a decimal integer")
	require.Contains(t, body, "shapes line 2: blank line")
}

func TestSubmitForm_ValueOutOfContractRange(t *testing.T) {
	s := &mockSubmitter{}
	ts := newTestServer(t, s)

	form := validForm()
	form.Set(showminting.FieldArtistID, "70000")
	form.Set(showminting.FieldShapes, "1\r\n300")

	res, err := http.PostForm(ts.URL+"/", form)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	body := readBody(t, res)
	require.Empty(t, s.calls)
	require.Contains(t, body, "artist_id: value out of range: 70000 doesn&#39;t fit into uint16")
	require.Contains(t, body, "shapes line 2: value out of range: 300 doesn&#39;t fit into uint8")
}

func TestSubmitForm_SubmitterErrorIsSanitized(t *testing.T) {
	s := &mockSubmitter{err: errors.New(`execution reverted <script>alert(1)</script>`)}
	ts := newTestServer(t, s)

	res, err := http.PostForm(ts.URL+"/", validForm())
	require.NoError(t, err)
	require.Equal(t, http.StatusBadGateway, res.StatusCode)
	body := readBody(t, res)
	require.Contains(t, body, "submitting transaction: execution reverted")
	require.NotContains(t, body, "<script>")
	require.NotContains(t, body, "txExplorerLink")
}

func TestAPI_ContractInfo(t *testing.T) {
	ts := newTestServer(t, &mockSubmitter{})

	res, err := http.Get(ts.URL + "/api/v1/contract")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var info ContractInfoResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&info))
	require.NoError(t, res.Body.Close())
	require.Equal(t, ContractInfoResponse{
		Address:      chain.DefaultContractAddress,
		ChainName:    chain.OptimismSepoliaName,
		ChainID:      chain.OptimismSepoliaChainID,
		Function:     chain.DefaultFunctionName,
		ExplorerLink: contractLink,
		ProjectID:    chain.DefaultWalletProjectID,
	}, info)
}

func TestAPI_SubmitShow(t *testing.T) {
	s := &mockSubmitter{}
	ts := newTestServer(t, s)

	body := `{"artist_id":"5","blockheight":"1000","shapes":"10\n20","numberOfSets":"3","stonePriceEth":"0.01","rabbitSecrets":"x\ny"}`
	res, err := http.Post(ts.URL+"/api/v1/shows", ApplicationJson, strings.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var resp SubmitShowResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&resp))
	require.NoError(t, res.Body.Close())
	require.Equal(t, common.HexToHash("0x01"), resp.TxHash)
	require.Equal(t, testSender, resp.From)
	require.Equal(t, "https://sepolia-optimism.etherscan.io/tx/"+resp.TxHash.Hex(), resp.ExplorerURL)
	require.Len(t, s.calls, 1)
}

func TestAPI_SubmitShow_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		submitErr  error
		wantStatus int
		wantMsg    string
		wantDetail []string
	}{
		{
			name:       "malformed json",
			body:       `{"artist_id":`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "failed to decode request body: unexpected EOF",
		},
		{
			name:       "unknown field",
			body:       `{"artistId":"5"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    `failed to decode request body: json: unknown field "artistId"`,
		},
		{
			name:       "single invalid field",
			body:       `{"artist_id":"5","blockheight":"1000","shapes":"10","numberOfSets":"3","stonePriceEth":"abc","rabbitSecrets":"x"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    `stonePriceEth: invalid ether amount: "abc" is not a decimal number`,
		},
		{
			name:       "several invalid fields",
			body:       `{"artist_id":"","blockheight":"1000","shapes":"10","numberOfSets":"three","stonePriceEth":"1","rabbitSecrets":"x"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "invalid form input",
			wantDetail: []string{"artist_id: value is required", `numberOfSets: not a decimal integer: "three"`},
		},
		{
			name:       "artist id out of contract range",
			body:       `{"artist_id":"70000","blockheight":"1000","shapes":"10","numberOfSets":"3","stonePriceEth":"1","rabbitSecrets":"x"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "artist_id: value out of range: 70000 doesn't fit into uint16",
		},
		{
			name:       "several values out of contract range",
			body:       `{"artist_id":"-1","blockheight":"1000","shapes":"300","numberOfSets":"3","stonePriceEth":"1","rabbitSecrets":"x"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "invalid form input",
			wantDetail: []string{"artist_id: value out of range: -1 doesn't fit into uint16", "shapes line 1: value out of range: 300 doesn't fit into uint8"},
		},
		{
			name:       "submission failed",
			body:       `{"artist_id":"5","blockheight":"1000","shapes":"10","numberOfSets":"3","stonePriceEth":"1","rabbitSecrets":"x"}`,
			submitErr:  errors.New("insufficient funds for gas * price + value"),
			wantStatus: http.StatusBadGateway,
			wantMsg:    "submitting transaction: insufficient funds for gas * price + value",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, &mockSubmitter{err: tt.submitErr})

			res, err := http.Post(ts.URL+"/api/v1/shows", ApplicationJson, strings.NewReader(tt.body))
			require.NoError(t, err)
			require.Equal(t, tt.wantStatus, res.StatusCode)

			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(res.Body).Decode(&resp))
			require.NoError(t, res.Body.Close())
			require.Equal(t, tt.wantMsg, resp.Message)
			require.Equal(t, tt.wantDetail, resp.Details)
		})
	}
}

func TestAPI_HashSecrets(t *testing.T) {
	ts := newTestServer(t, &mockSubmitter{})

	res, err := http.Post(ts.URL+"/api/v1/secrets/hash", ApplicationJson, strings.NewReader(`{"secrets":"a\r\nabc"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var resp HashSecretsResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&resp))
	require.NoError(t, res.Body.Close())
	require.Equal(t, []common.Hash{
		common.HexToHash("0x3ac225168df54212a25c1c01fd35bebfea408fdac2e31ddd6f80a4bbf9a5f1cb"),
		common.HexToHash("0x4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45"),
	}, resp.Hashes)

	res, err = http.Post(ts.URL+"/api/v1/secrets/hash", ApplicationJson, strings.NewReader(`{"secrets":"a\n\nb"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Contains(t, readBody(t, res), "rabbitSecrets line 2: blank line")
}

func TestAPI_CORS(t *testing.T) {
	ts := newTestServer(t, &mockSubmitter{})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/v1/shows", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", ContentType)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.NoError(t, res.Body.Close())
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
}

func TestSwaggerDoc(t *testing.T) {
	ts := newTestServer(t, &mockSubmitter{})

	res, err := http.Get(ts.URL + "/api/v1/swagger/doc.json")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	body := readBody(t, res)
	require.Contains(t, body, `"/shows"`)
	require.Contains(t, body, `"basePath": "/api/v1"`)
}

func TestRun_StopsOnCancel(t *testing.T) {
	adapter, err := showminting.NewAdapter(chain.DefaultConfig(), &mockSubmitter{})
	require.NoError(t, err)
	srv, err := New(adapter)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, "127.0.0.1:0", srv) }()
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestStatusOf(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, statusOf(&showminting.FieldError{Field: showminting.FieldShapes, Err: showminting.ErrBlankLine}))
	require.Equal(t, http.StatusBadRequest, statusOf(errors.Join(errors.New("submitting transaction"), chain.ErrOutOfRange)))
	require.Equal(t, http.StatusBadGateway, statusOf(errors.New("connection refused")))
}
