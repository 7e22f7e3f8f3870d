package auth

import (
	"github.com/gin-gonic/gin"
)

// 只有 middleware 透過 SetUser 寫入；handler 透過 CurrentUser 讀取
const identityKey = "auth.identity"

func SetUser(c *gin.Context, identity Identity) {
	c.Set(identityKey, identity)
}

func CurrentUser(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	identity, ok := v.(Identity)
	return identity, ok
}
