// Package web serves the built public site and admin dashboard bundles.
// Build them into web/public/dist and web/admin/dist before compiling; when
// a bundle is missing a placeholder page is served instead.
package web

import "embed"

//go:embed all:public/dist
var PublicDist embed.FS

//go:embed all:admin/dist
var AdminDist embed.FS
