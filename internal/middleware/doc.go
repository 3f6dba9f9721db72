// Package middleware 提供了 HTTP 請求處理的中間件。
//
// 這個包包含了跨請求的功能，目前是以 slog 記錄請求日誌。
package middleware
