package cmd

import "github.com/schlitzered/goredis/resp"

// PfAdd runs PFADD against one or more elements.
func PfAdd(e Executor, key string, elements ...string) (resp.Value, error) {
	args := make([]interface{}, 0, len(elements)+2)
	args = append(args, "PFADD", key)
	for _, el := range elements {
		args = append(args, el)
	}
	return e.Execute(args...)
}

// PfCount runs PFCOUNT against one or more keys.
func PfCount(e Executor, keys ...string) (resp.Value, error) {
	args := make([]interface{}, 0, len(keys)+1)
	args = append(args, "PFCOUNT")
	for _, k := range keys {
		args = append(args, k)
	}
	return e.Execute(args...)
}

// PfMerge runs PFMERGE: dest takes the union of all source HyperLogLogs.
func PfMerge(e Executor, dest string, sources ...string) (resp.Value, error) {
	args := make([]interface{}, 0, len(sources)+2)
	args = append(args, "PFMERGE", dest)
	for _, s := range sources {
		args = append(args, s)
	}
	return e.Execute(args...)
}
