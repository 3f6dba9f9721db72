// Package collab 實作協作房間的客戶端狀態。
//
// Session 持有目前所在的房間、作者名稱與訊息快取。進入房間後會啟動一個
// poller，以固定間隔向後端拉取完整訊息列表並整批取代快取；離開房間、切換
// 房間或 Close 時 poller 會被停止。
package collab
