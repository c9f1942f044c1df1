package middleware

import (
	"net/http"
	"time"

	"github.com/irapidev/xml2json/comm/config"
	"github.com/irapidev/xml2json/comm/errno"
	"github.com/irapidev/xml2json/comm/log"
	"github.com/irapidev/xml2json/comm/utils"

	"github.com/gin-gonic/gin"
)

func checkAuth(username, password string) bool {
	auth := config.Get().Auth
	return auth.Username != "" && username == auth.Username && password == auth.Password
}

// JWTMiddleWare guards the API: a bearer token in the Authorization header,
// or username/password query parameters as a fallback.
func JWTMiddleWare(c *gin.Context) {
	if !config.Get().Auth.Enabled {
		c.Next()
		return
	}

	code := errno.OK
	strToken := c.Request.Header.Get("Authorization")
	token := utils.GetToken(strToken)
	log.Debugf("jwt[%s]", token)

	var err error
	var claims *utils.Claims

	if token == "" {
		username := c.Query("username")
		password := c.Query("password")
		if username == "" || password == "" {
			c.JSON(http.StatusOK, errno.ErrNotAuthorized)
			c.Abort()
			return
		}
		if !checkAuth(username, password) {
			code = errno.ErrNotAuthorized
		}
	} else {
		claims, err = utils.ParseToken(token)
		if err != nil {
			code = errno.ErrAuthTokenErr
		} else if claims.ExpiresAt != nil && time.Now().Unix() > claims.ExpiresAt.Unix() {
			code = errno.ErrAuthTimeout
		}
	}

	if code != errno.OK {
		c.JSON(http.StatusOK, code)
		c.Abort()
		return
	}

	if claims != nil {
		log.Debugf("authorized user %s", claims.UserName)
		c.Set("jwt", claims)
	}

	c.Next()
}
