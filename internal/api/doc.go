// Package api 處理 HTTP 請求路由。
//
// 它負責把房間 API 的路徑掛到對應的 handlers，
// handlers 再將 HTTP 請求轉換為服務調用，並將結果轉換回 JSON 響應。
package api
