package common

import (
	"crypto/sha256"
	"fmt"
	"os"

	"github.com/bwmarrin/snowflake"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

const defaultSecretSalt = "stocklane-secret"

var snowflakeNode *snowflake.Node

func init() {
	var err error
	snowflakeNode, err = snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
}

// UUIDint64 returns a process-unique, time-ordered int64 identifier
func UUIDint64() int64 {
	return snowflakeNode.Generate().Int64()
}

// UUID returns the string form of a snowflake identifier
func UUID() string {
	return snowflakeNode.Generate().String()
}

// GetSecretSalt returns the password salt, overridable via environment
func GetSecretSalt() string {
	if v := os.Getenv("STOCKLANE_SECRET_SALT"); v != "" {
		return v
	}
	return defaultSecretSalt
}

// Sha256HashWithSalt hashes src with the given salt
func Sha256HashWithSalt(src string, salt string) string {
	h := sha256.New()
	h.Write([]byte(src + salt))
	return fmt.Sprintf("%x", h.Sum(nil))
}
