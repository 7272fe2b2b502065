package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Player lifecycle (info)
		"Opening %s":                      "%s を開いています",
		"Selected stream #%d (%s, %dx%d)": "ストリーム #%d を選択しました (%s, %dx%d)",
		"Playback finished: %s":           "再生を終了しました: %s",
		"Presented %d frames":             "%d フレームを表示しました",
		"Interrupted, shutting down...":   "中断されました。シャットダウン中...",
		"Metrics listening on %s":         "メトリクスを %s で公開しています",
		"Summary saved to %s":             "サマリーを %s に保存しました",

		// Component details (debug)
		"Feeding packet: stream %d, %d bytes": "パケットを投入: ストリーム %d, %d バイト",
		"Decoded frame %d (%s, %dx%d)":        "フレーム %d をデコードしました (%s, %dx%d)",
		"Converter bound to %s %dx%d":         "変換器を %s %dx%d に設定しました",
		"Surface created: %dx%d":              "表示面を作成しました: %dx%d",
		"Wrote %s":                            "%s を書き出しました",
		"Pacing clock re-based at frame %d":   "フレーム %d でペーシング時計を再設定しました",
		"Flushing decoder":                    "デコーダーをフラッシュしています",
		"Decoding %s with %s":                 "%s を %s でデコードします",

		// Warnings
		"Unsupported codec %s on stream #%d, skipping":    "ストリーム #%[2]d のコーデック %[1]s は未対応のためスキップします",
		"Error while sending a packet to the decoder: %s": "デコーダーへのパケット送信中にエラー: %s",
		"Error while reading a packet: %s":                "パケット読み込み中にエラー: %s",
		"Frame rate unknown, falling back to %.3f FPS":    "フレームレート不明のため %.3f FPS を使用します",
		"libav: %s":                              "libav: %s",
		"Font %s unavailable, using default: %s": "フォント %s を読み込めないため既定のフォントを使用します: %s",

		// Errors
		"Error while receiving a frame from the decoder: %s": "デコーダーからのフレーム受信中にエラー: %s",
		"Failed to write summary: %s":                        "サマリーの書き込みに失敗しました: %s",
		"Metrics server error: %s":                           "メトリクスサーバーのエラー: %s",
		"Release failed: %s":                                 "リソースの解放に失敗しました: %s",
	})
}
