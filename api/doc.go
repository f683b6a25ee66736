// Package api exposes the attribution service over HTTP.
//
//	POST /v1/attributions  segments in, attributed transcript out
//	POST /v1/jobs          audio job in, attributed transcript out
//
// Transcripts are rendered as JSON by default. A ?format= query parameter
// (json, yaml, markdown, srt) or an Accept header selects another rendering.
package api
