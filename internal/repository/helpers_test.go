package repository_test

import (
	"encoding/json"
	"strconv"
)

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
