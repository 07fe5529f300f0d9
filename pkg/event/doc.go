// Package event は掲示板の状態変更を表すドメインイベントと、その送信を提供する。
//
// イベントは監査目的で外部のイベントストアへ送信される。
// 送信の成否はAPIのレスポンスに影響しない。
package event
