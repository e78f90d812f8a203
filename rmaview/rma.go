package rmaview

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/iccolo/rmagui/rmaapi"
	"go.uber.org/zap"
)

// View names, as referenced by route entries
const (
	RMAView        = "RMA"
	HelloWorldView = "HelloWorld"
)

// AnalyzePath is where the dashboard's analyze form is posted.
const AnalyzePath = "/analyze"

// RMAPage is the view model of the analyzer dashboard.
type RMAPage struct {
	AnalyzePath string
	Instances   []rmaapi.InstanceStatus

	// Host is the selected instance, if any
	Host     string
	KeyTypes []string

	// KeyType, Prefix, Limit, and Sort describe the expanded layer of the key tree
	KeyType string
	Prefix  string
	Limit   int64
	Sort    rmaapi.SortVar
	Sorts   []rmaapi.SortVar
	Nodes   []rmaapi.NodeInfo

	// Key is the selected key.  KeyInfo and Value are its sampled contents.
	Key     string
	KeyInfo *rmaapi.KeyInfo
	Value   any
}

// Views returns the application's views, backed by api.
func Views(api rmaapi.API) []Def {
	return []Def{
		{
			Name:     RMAView,
			Template: "rma.html",
			Title:    "Redis Memory Analyzer",
			Load:     LoadRMA(api),
		},
		{
			Name:     HelloWorldView,
			Template: "helloworld.html",
			Title:    "Hello World",
		},
	}
}

// LoadRMA returns the dashboard Loader.  The query parameters host, type,
// prefix, limit, sort, and key select what is fetched.
func LoadRMA(api rmaapi.API) Loader {
	return func(r *http.Request) (any, error) {
		var (
			ctx  = r.Context()
			q    = r.URL.Query()
			page = &RMAPage{
				AnalyzePath: AnalyzePath,
				Host:        q.Get("host"),
				KeyType:     q.Get("type"),
				Prefix:      q.Get("prefix"),
				Key:         q.Get("key"),
				Limit:       rmaapi.DefaultNumLimit,
				Sorts:       []rmaapi.SortVar{rmaapi.SortByTotalSize, rmaapi.SortByKeyNum, rmaapi.SortByChildNum},
			}

			err error
		)

		page.Sort, err = rmaapi.ParseSortVar(q.Get("sort"))
		if err != nil {
			page.Sort = rmaapi.DefaultSortVar
			return page, BadRequest(err)
		}

		if v := q.Get("limit"); len(v) > 0 {
			page.Limit, err = strconv.ParseInt(v, 10, 64)
			if err != nil || page.Limit <= 0 {
				page.Limit = rmaapi.DefaultNumLimit
				return page, BadRequest(fmt.Errorf("invalid limit %q", v))
			}
		}

		page.Instances, err = api.InstanceList(ctx)
		if err != nil || len(page.Host) == 0 {
			return page, err
		}

		page.KeyTypes, err = api.KeyTypes(ctx, page.Host)
		if err != nil {
			return page, err
		}

		switch {
		case len(page.Key) > 0:
			page.KeyInfo, err = api.KeyInfo(ctx, page.Host, page.Key)
			if err == nil {
				page.Value, err = keyValue(page.KeyInfo)
			}

		case len(page.KeyType) > 0:
			page.Nodes, err = api.Expand(ctx, rmaapi.ExpandRequest{
				Host:      page.Host,
				KeyType:   page.KeyType,
				KeyPrefix: page.Prefix,
				NumLimit:  page.Limit,
				SortVar:   page.Sort,
			})
		}

		return page, err
	}
}

// keyValue decodes a sampled value according to its key type.  Unknown
// types are shown raw.
func keyValue(ki *rmaapi.KeyInfo) (any, error) {
	switch ki.Type {
	case "string":
		return ki.StringValue()

	case "list":
		return ki.ListValue()

	case "set":
		return ki.SetValue()

	case "hash":
		return ki.HashValue()

	case "zset":
		return ki.ZSetValue()

	default:
		return string(ki.Value), nil
	}
}

// AnalyzeHandler accepts the dashboard's analyze form, starts an analysis,
// and redirects to the dashboard for the analyzed host.
func AnalyzeHandler(api rmaapi.API, logger *zap.Logger, dashboard string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		request, err := parseAnalyzeForm(r)
		if err == nil {
			err = api.StartAnalyze(r.Context(), request)
		}

		switch {
		case err == nil:
			q, _ := link("host", request.Host)
			http.Redirect(w, r, dashboard+q, http.StatusSeeOther)

		case errors.Is(err, rmaapi.ErrMissingHost) || errors.Is(err, rmaapi.ErrMissingSeparators):
			http.Error(w, err.Error(), http.StatusBadRequest)

		default:
			status := StatusFor(err)
			logger.Warn("analyze failed", zap.String("host", request.Host), zap.Int("status", status), zap.Error(err))
			http.Error(w, err.Error(), status)
		}
	})
}

func parseAnalyzeForm(r *http.Request) (request rmaapi.AnalyzeRequest, err error) {
	if err = r.ParseForm(); err != nil {
		err = BadRequest(err)
		return
	}

	request = rmaapi.AnalyzeRequest{
		Host:       strings.TrimSpace(r.PostForm.Get("host")),
		Port:       6379,
		Password:   r.PostForm.Get("password"),
		Match:      r.PostForm.Get("match"),
		Separators: []byte(r.PostForm.Get("separators")),
	}

	for _, t := range strings.Split(r.PostForm.Get("types"), ",") {
		if t = strings.TrimSpace(t); len(t) > 0 {
			request.Types = append(request.Types, t)
		}
	}

	if v := r.PostForm.Get("port"); len(v) > 0 {
		var port uint64
		if port, err = strconv.ParseUint(v, 10, 16); err != nil {
			err = BadRequest(fmt.Errorf("invalid port %q", v))
			return
		}

		request.Port = uint(port)
	}

	if v := r.PostForm.Get("count"); len(v) > 0 {
		var count uint64
		if count, err = strconv.ParseUint(v, 10, 32); err != nil {
			err = BadRequest(fmt.Errorf("invalid count %q", v))
			return
		}

		request.Count = uint(count)
	}

	if v := r.PostForm.Get("limit"); len(v) > 0 {
		if request.Limit, err = strconv.ParseUint(v, 10, 64); err != nil {
			err = BadRequest(fmt.Errorf("invalid limit %q", v))
			return
		}
	}

	if v := r.PostForm.Get("cluster"); len(v) > 0 {
		if request.Cluster, err = strconv.ParseBool(v); err != nil {
			err = BadRequest(fmt.Errorf("invalid cluster flag %q", v))
			return
		}
	}

	return
}
