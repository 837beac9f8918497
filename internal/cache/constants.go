package cache

import "fmt"

// key names definition
// a browser session owns exactly these two keys; they are written and
// removed together
const (
	SessionTokenKey    = "session:%s:token"     // bearer credential, '%s' is session id
	SessionUserInfoKey = "session:%s:user_info" // serialized identity, '%s' is session id
)

func MakeSessionTokenKey(sid string) string {
	return fmt.Sprintf(SessionTokenKey, sid)
}

func MakeSessionUserInfoKey(sid string) string {
	return fmt.Sprintf(SessionUserInfoKey, sid)
}
