// Package catalog discovers downloadable tracks on the tarat.ru music
// catalog.
//
// Discovery happens in two stages:
//
//  1. The paginated /music listing is crawled for artist page URLs
//  2. Each artist page is parsed for the artist name, cover image and
//     track list
//
// Both stages send browser-like headers and pause a randomized
// interval between requests. The result is a flat track list that can
// be cached on disk (see Cache) so later runs skip discovery entirely.
package catalog
