package main

import (
	"fmt"
	"net/url"
	"strings"

	"equipment-portal/pkg/types"
	"equipment-portal/pkg/utils"
)

// filterFromArgs turns field=value pairs into a list filter without pagination.
func filterFromArgs(args []string) (types.Filter, error) {
	values := url.Values{"withPagination": []string{"false"}}
	for _, arg := range args {
		field, value, ok := strings.Cut(arg, "=")
		if !ok || field == "" {
			return types.Filter{}, fmt.Errorf("filter %q is not field=value", arg)
		}
		values.Add("filter["+field+"]", value)
	}
	return utils.ParseFilterFromQuery(values), nil
}
