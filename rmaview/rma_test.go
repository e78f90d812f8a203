package rmaview

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/iccolo/rmagui/rmaapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
)

func TestKeyValue(t *testing.T) {
	testData := []struct {
		keyType  string
		value    string
		expected any
	}{
		{"string", `"hello"`, "hello"},
		{"list", `["a","b"]`, []string{"a", "b"}},
		{"set", `["x"]`, []string{"x"}},
		{"hash", `{"f":"v"}`, map[string]string{"f": "v"}},
		{"zset", `[{"member":"m","score":1.5}]`, []rmaapi.ZSetItem{{Member: "m", Score: 1.5}}},
		{"stream", `{"raw":true}`, `{"raw":true}`},
	}

	for _, record := range testData {
		t.Run(record.keyType, func(t *testing.T) {
			v, err := keyValue(&rmaapi.KeyInfo{
				Key:   "key",
				Type:  record.keyType,
				Value: json.RawMessage(record.value),
			})

			require.NoError(t, err)
			assert.Equal(t, record.expected, v)
		})
	}
}

type RMASuite struct {
	suite.Suite

	api *mockAPI
	set *Set
}

func (suite *RMASuite) SetupTest() {
	suite.api = new(mockAPI)

	var err error
	suite.set, err = NewSet(zaptest.NewLogger(suite.T()), Views(suite.api)...)
	suite.Require().NoError(err)
}

func (suite *RMASuite) SetupSubTest() {
	suite.SetupTest()
}

func (suite *RMASuite) TearDownTest() {
	suite.api.AssertExpectations(suite.T())
}

func (suite *RMASuite) load(target string) (*RMAPage, error) {
	data, err := LoadRMA(suite.api)(httptest.NewRequest(http.MethodGet, target, nil))
	page, ok := data.(*RMAPage)
	suite.Require().True(ok)
	return page, err
}

func (suite *RMASuite) render(target string) *httptest.ResponseRecorder {
	h, ok := suite.set.Resolve(RMAView)
	suite.Require().True(ok)

	response := httptest.NewRecorder()
	h.ServeHTTP(response, httptest.NewRequest(http.MethodGet, target, nil))
	return response
}

func (suite *RMASuite) instances() []rmaapi.InstanceStatus {
	return []rmaapi.InstanceStatus{
		{Host: "10.0.0.1", AnalyzeStartTime: "2024-01-02 03:04:05", AnalyzeEndTime: "2024-01-02 03:14:05", IsFinish: true},
		{Host: "10.0.0.2", AnalyzeStartTime: "2024-01-02 04:00:00"},
	}
}

func (suite *RMASuite) TestInstances() {
	suite.api.ExpectInstanceList(suite.instances(), nil).Once()

	page, err := suite.load("/")
	suite.NoError(err)
	suite.Equal(suite.instances(), page.Instances)
	suite.Empty(page.KeyTypes)
	suite.Equal(int64(rmaapi.DefaultNumLimit), page.Limit)
	suite.Equal(rmaapi.DefaultSortVar, page.Sort)
	suite.Equal(AnalyzePath, page.AnalyzePath)

	suite.api.ExpectInstanceList(suite.instances(), nil).Once()
	response := suite.render("/")
	suite.Equal(http.StatusOK, response.Code)

	body := response.Body.String()
	suite.Contains(body, "10.0.0.1")
	suite.Contains(body, "10.0.0.2")
	suite.Contains(body, "finished")
	suite.Contains(body, "analyzing")
	suite.Contains(body, `action="/analyze"`)
}

func (suite *RMASuite) TestNoInstances() {
	suite.api.ExpectInstanceList(nil, nil)

	response := suite.render("/")
	suite.Equal(http.StatusOK, response.Code)
	suite.Contains(response.Body.String(), "No instances have been analyzed.")
}

func (suite *RMASuite) TestKeyTypes() {
	suite.api.ExpectInstanceList(suite.instances(), nil)
	suite.api.ExpectKeyTypes("10.0.0.1", []string{"string", "hash"}, nil)

	page, err := suite.load("/?host=10.0.0.1")
	suite.NoError(err)
	suite.Equal([]string{"string", "hash"}, page.KeyTypes)
	suite.Empty(page.Nodes)
	suite.Nil(page.KeyInfo)

	response := suite.render("/?host=10.0.0.1")
	suite.Equal(http.StatusOK, response.Code)
	suite.Contains(response.Body.String(), ">hash</a>")
}

func (suite *RMASuite) TestExpand() {
	var (
		request = rmaapi.ExpandRequest{
			Host:      "10.0.0.1",
			KeyType:   "hash",
			KeyPrefix: "user:",
			NumLimit:  10,
			SortVar:   rmaapi.SortByKeyNum,
		}

		nodes = []rmaapi.NodeInfo{
			{Segment: "profile:", KeyNum: 20, TotalSize: 2048, ChildNum: 20},
			{Segment: "user:admin", KeyNum: 1, TotalSize: 100},
		}

		target = "/?host=10.0.0.1&type=hash&prefix=user:&limit=10&sort=keys"
	)

	suite.api.ExpectInstanceList(suite.instances(), nil)
	suite.api.ExpectKeyTypes("10.0.0.1", []string{"hash"}, nil)
	suite.api.ExpectExpand(request, nodes, nil)

	page, err := suite.load(target)
	suite.NoError(err)
	suite.Equal(nodes, page.Nodes)
	suite.Equal(rmaapi.SortByKeyNum, page.Sort)
	suite.Equal(int64(10), page.Limit)

	response := suite.render(target)
	suite.Equal(http.StatusOK, response.Code)

	body := response.Body.String()
	suite.Contains(body, "user:profile:")
	suite.Contains(body, "user:admin")
	suite.Contains(body, "2KiB")
	suite.Contains(body, "100B")
}

func (suite *RMASuite) TestKeyInfo() {
	suite.api.ExpectInstanceList(suite.instances(), nil)
	suite.api.ExpectKeyTypes("10.0.0.1", []string{"hash"}, nil)
	suite.api.ExpectKeyInfo("10.0.0.1", "user:admin", &rmaapi.KeyInfo{
		Key:   "user:admin",
		Type:  "hash",
		TTL:   -1,
		Value: json.RawMessage(`{"name":"root","role":"admin"}`),
	}, nil)

	page, err := suite.load("/?host=10.0.0.1&key=user:admin")
	suite.NoError(err)
	suite.Require().NotNil(page.KeyInfo)
	suite.Equal(map[string]string{"name": "root", "role": "admin"}, page.Value)

	response := suite.render("/?host=10.0.0.1&key=user:admin")
	suite.Equal(http.StatusOK, response.Code)

	body := response.Body.String()
	suite.Contains(body, "<td>role</td><td>admin</td>")
	suite.Contains(body, "ttl -1")
}

func (suite *RMASuite) TestBadRequest() {
	suite.Run("Sort", func() {
		page, err := suite.load("/?sort=random")
		suite.ErrorIs(err, rmaapi.ErrInvalidSortVar)
		suite.Equal(http.StatusBadRequest, StatusFor(err))
		suite.Equal(rmaapi.DefaultSortVar, page.Sort)

		suite.Equal(http.StatusBadRequest, suite.render("/?sort=random").Code)
	})

	suite.Run("Limit", func() {
		for _, limit := range []string{"0", "-1", "many"} {
			_, err := suite.load("/?limit=" + limit)
			suite.Error(err)
			suite.Equal(http.StatusBadRequest, StatusFor(err))
		}
	})
}

func (suite *RMASuite) TestBackendError() {
	suite.Run("InstanceList", func() {
		suite.api.ExpectInstanceList(nil, errors.New("connection refused"))

		response := suite.render("/")
		suite.Equal(http.StatusBadGateway, response.Code)
		suite.Contains(response.Body.String(), "connection refused")
	})

	suite.Run("Expand", func() {
		suite.api.ExpectInstanceList(suite.instances(), nil)
		suite.api.ExpectKeyTypes("10.0.0.1", []string{"hash"}, nil)
		suite.api.ExpectExpand(
			rmaapi.ExpandRequest{Host: "10.0.0.1", KeyType: "hash", NumLimit: rmaapi.DefaultNumLimit, SortVar: rmaapi.DefaultSortVar},
			nil,
			errors.New("host is analyzing"),
		)

		response := suite.render("/?host=10.0.0.1&type=hash")
		suite.Equal(http.StatusBadGateway, response.Code)

		body := response.Body.String()
		suite.Contains(body, "host is analyzing")
		suite.Contains(body, "10.0.0.2")
	})
}

func (suite *RMASuite) post(form url.Values) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, AnalyzePath, strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response := httptest.NewRecorder()
	AnalyzeHandler(suite.api, zaptest.NewLogger(suite.T()), "/").ServeHTTP(response, request)
	return response
}

func (suite *RMASuite) TestAnalyze() {
	suite.api.ExpectStartAnalyze(
		rmaapi.AnalyzeRequest{
			Host:       "10.0.0.3",
			Port:       6380,
			Count:      500,
			Limit:      10000,
			Types:      []string{"string", "hash"},
			Separators: []byte(":|"),
			Cluster:    true,
		},
		nil,
	)

	response := suite.post(url.Values{
		"host":       {" 10.0.0.3 "},
		"port":       {"6380"},
		"count":      {"500"},
		"limit":      {"10000"},
		"types":      {"string, hash,"},
		"separators": {":|"},
		"cluster":    {"true"},
	})

	suite.Equal(http.StatusSeeOther, response.Code)
	suite.Equal("/?host=10.0.0.3", response.Header().Get("Location"))
}

func (suite *RMASuite) TestAnalyzeErrors() {
	suite.Run("InvalidPort", func() {
		response := suite.post(url.Values{"host": {"h"}, "port": {"redis"}, "separators": {":"}})
		suite.Equal(http.StatusBadRequest, response.Code)
	})

	suite.Run("InvalidCluster", func() {
		response := suite.post(url.Values{"host": {"h"}, "cluster": {"maybe"}, "separators": {":"}})
		suite.Equal(http.StatusBadRequest, response.Code)
	})

	suite.Run("MissingSeparators", func() {
		suite.api.ExpectStartAnalyze(rmaapi.AnalyzeRequest{Host: "h", Port: 6379, Separators: []byte{}}, rmaapi.ErrMissingSeparators)

		response := suite.post(url.Values{"host": {"h"}})
		suite.Equal(http.StatusBadRequest, response.Code)
		suite.Contains(response.Body.String(), "separators is empty")
	})

	suite.Run("Backend", func() {
		suite.api.ExpectStartAnalyze(rmaapi.AnalyzeRequest{Host: "h", Port: 6379, Separators: []byte(":")}, errors.New("already analyzing"))

		response := suite.post(url.Values{"host": {"h"}, "separators": {":"}})
		suite.Equal(http.StatusBadGateway, response.Code)
		suite.Contains(response.Body.String(), "already analyzing")
	})
}

func TestRMA(t *testing.T) {
	suite.Run(t, new(RMASuite))
}
