package service

import (
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"

	"semantiapi/internal/repository"
)

// storeManaged are top-level fields the repository owns; they never appear in Changes.
var storeManaged = map[string]bool{"_id": true, "createdAt": true, "updatedAt": true}

// changesBetween returns the $set/$unset that turns before into after. Embedded
// documents are compared key by key so concurrent writers touching different keys
// of the same map do not overwrite each other.
func changesBetween(before bson.Raw, after any) (repository.Changes, error) {
	raw, err := bson.Marshal(after)
	if err != nil {
		return repository.Changes{}, err
	}
	ch := repository.Changes{Set: bson.M{}}
	if err := diffDocs(&ch, "", before, raw); err != nil {
		return repository.Changes{}, err
	}
	sort.Strings(ch.Unset)
	return ch, nil
}

func diffDocs(ch *repository.Changes, prefix string, before, after bson.Raw) error {
	old, err := before.Elements()
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(old))

	elems, err := after.Elements()
	if err != nil {
		return err
	}
	for _, e := range elems {
		key := e.Key()
		if prefix == "" && storeManaged[key] {
			continue
		}
		seen[key] = true
		path := prefix + key
		nv := e.Value()

		ov, lerr := before.LookupErr(key)
		if lerr == nil && valuesEqual(ov, nv) {
			continue
		}
		if lerr == nil && ov.Type == bsontype.EmbeddedDocument && nv.Type == bsontype.EmbeddedDocument && pathSafe(nv.Document()) {
			if err := diffDocs(ch, path+".", ov.Document(), nv.Document()); err != nil {
				return err
			}
			continue
		}
		ch.Set[path] = nv
	}

	for _, e := range old {
		key := e.Key()
		if seen[key] || (prefix == "" && storeManaged[key]) {
			continue
		}
		ch.Unset = append(ch.Unset, prefix+key)
	}
	return nil
}

// valuesEqual compares embedded documents regardless of key order, since Go maps
// marshal in random order.
func valuesEqual(a, b bson.RawValue) bool {
	if a.Type != bsontype.EmbeddedDocument || b.Type != bsontype.EmbeddedDocument {
		return a.Equal(b)
	}
	ae, err := a.Document().Elements()
	if err != nil {
		return false
	}
	be, err := b.Document().Elements()
	if err != nil || len(ae) != len(be) {
		return false
	}
	for _, e := range ae {
		v, err := b.Document().LookupErr(e.Key())
		if err != nil || !valuesEqual(e.Value(), v) {
			return false
		}
	}
	return true
}

// pathSafe reports whether every key of doc can be addressed with dot notation.
func pathSafe(doc bson.Raw) bool {
	elems, err := doc.Elements()
	if err != nil {
		return false
	}
	for _, e := range elems {
		k := e.Key()
		if k == "" || strings.Contains(k, ".") || strings.HasPrefix(k, "$") {
			return false
		}
	}
	return true
}
