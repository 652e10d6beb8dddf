// Package npm provides an HTTP client for the npm registry API.
//
// # Overview
//
// This package fetches publish timestamps from the npm registry
// (https://registry.npmjs.org). A single packument request per package
// returns the "time" map, which records one ISO-8601 timestamp per
// published version; looking up release dates for many versions of the
// same package costs one request.
//
// # Usage
//
//	client := npm.NewClient("", cache, 1)
//
//	date, err := client.ReleaseDate(ctx, "lodash", "4.17.21", false)
//	if err != nil {
//	    // errors.Is(err, registry.ErrNotFound): the package or version
//	    // is not published; anything else is a network/decode failure.
//	}
//	fmt.Println(date) // "2021-02-20T15:42:16.891Z"
//
// # Scoped Packages
//
// Scoped names are URL-encoded with the "/" replaced by %2F and the
// leading "@" preserved, e.g. "@babel/core" → "@babel%2Fcore", the
// encoding the npm registry expects.
//
// # Caching
//
// Packument "time" maps are cached per package when the client is
// constructed with a cache. Pass refresh=true to bypass it.
package npm
