package convert

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"

	"github.com/irapidev/xml2json/comm/config"
	"github.com/irapidev/xml2json/comm/errno"
	"github.com/irapidev/xml2json/comm/log"
	"github.com/irapidev/xml2json/comm/utils"
	"github.com/irapidev/xml2json/db"
	"github.com/irapidev/xml2json/db/dao"
	"github.com/irapidev/xml2json/db/model"
	"github.com/irapidev/xml2json/xml2json"
)

// Concurrent requests for the same URL share one fetch+convert.
var fetchGroup singleflight.Group

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func authHandler(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, errno.ErrInvalidParam.WithData(err.Error()))
		return
	}
	auth := config.Get().Auth
	if !auth.Enabled || req.Username != auth.Username || req.Password != auth.Password {
		c.JSON(http.StatusOK, errno.ErrNotAuthorized)
		return
	}
	token, err := utils.GenerateToken(req.Username)
	if err != nil {
		log.Error(err)
		c.JSON(http.StatusOK, errno.ErrSystemError.WithData(err.Error()))
		return
	}
	c.JSON(http.StatusOK, errno.OK.WithData(gin.H{"token": token}))
}

func convertBodyHandler(c *gin.Context) {
	body, err := ioutil.ReadAll(c.Request.Body)
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		c.JSON(http.StatusOK, errno.ErrInvalidParam.WithData("empty request body"))
		return
	}

	start := time.Now()
	buf, err := xml2json.Convert(bytes.NewReader(body))
	if err != nil {
		log.Errorf("convert failed: %v", err)
		c.JSON(http.StatusOK, errno.ErrConvertError.WithData(err.Error()))
		return
	}

	record(model.SOURCE_BODY, "", len(body), buf.Len(), start)
	c.JSON(http.StatusOK, errno.OK.WithData(json.RawMessage(buf.Bytes())))
}

func convertURLHandler(c *gin.Context) {
	rawurl := c.Query("url")
	if rawurl == "" {
		c.JSON(http.StatusOK, errno.ErrInvalidParam.WithData("missing url parameter"))
		return
	}
	if u, err := url.Parse(rawurl); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		c.JSON(http.StatusOK, errno.ErrInvalidParam.WithData("url must be http or https"))
		return
	}

	cacheKey := "convert_url_" + rawurl
	if cached, found := db.GetCache().Get(cacheKey); found {
		log.Debugf("cache hit for %s", rawurl)
		c.JSON(http.StatusOK, errno.OK.WithData(json.RawMessage(cached.([]byte))))
		return
	}

	result, err, _ := fetchGroup.Do(cacheKey, func() (interface{}, error) {
		return fetchAndConvert(rawurl)
	})
	if err != nil {
		log.Errorf("fetch %s failed: %v", rawurl, err)
		c.JSON(http.StatusOK, errno.ErrFetchFailed.WithData(err.Error()))
		return
	}

	data := result.([]byte)
	db.GetCache().Set(cacheKey, data, config.Get().Fetch.CacheTTL)
	c.JSON(http.StatusOK, errno.OK.WithData(json.RawMessage(data)))
}

func fetchAndConvert(rawurl string) ([]byte, error) {
	fetch := config.Get().Fetch
	start := time.Now()

	var data []byte
	var encErr error
	err := xml2json.ParseFromURL(rawurl, func(doc *xml2json.Document) {
		data, encErr = json.Marshal(doc)
	},
		xml2json.WithTimeout(time.Duration(fetch.TimeoutMs)*time.Millisecond),
		xml2json.WithMaxRedirects(fetch.MaxRedirects),
		xml2json.WithEncoding(fetch.Encoding),
	)
	if err != nil {
		return nil, err
	}
	if encErr != nil {
		return nil, encErr
	}

	record(model.SOURCE_URL, rawurl, 0, len(data), start)
	return data, nil
}

func recordsHandler(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusOK, errno.ErrInvalidParam.WithData("limit must be a number"))
			return
		}
		limit = n
	}
	records, err := dao.GetConversionRecords(limit)
	if err != nil {
		c.JSON(http.StatusOK, errno.ErrSystemError.WithData(err.Error()))
		return
	}
	c.JSON(http.StatusOK, errno.OK.WithData(records))
}

func record(source, ref string, inSize, outSize int, start time.Time) {
	r := &model.ConversionRecord{
		Source:     source,
		SourceRef:  ref,
		InputSize:  inSize,
		OutputSize: outSize,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err := dao.AddConversionRecord(r); err != nil {
		log.Errorf("record conversion: %v", err)
	}
}
