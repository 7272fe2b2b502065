// Package main provides localization for the vidplay CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Commands
		"Play the video track of a media file":             "メディアファイルの映像トラックを再生",
		"List the streams of media files without decoding": "デコードせずにメディアファイルのストリームを一覧表示",
		"Show version information":                         "バージョン情報を表示",
		"vidplay version %s":                               "vidplay バージョン %s",
		"Usage: %s [flags] <video_file>":                   "使い方: %s [フラグ] <動画ファイル>",

		// Flags
		"YAML configuration file":                          "YAML設定ファイル",
		"Demuxer backend (libav, mp4)":                     "デマルチプレクサー（libav, mp4）",
		"Pixel converter backend (libav, go)":              "ピクセル変換（libav, go）",
		"AV1 decoder backend (libav, aom)":                 "AV1デコーダー（libav, aom）",
		"Presenter backend (sdl, png)":                     "表示方式（sdl, png）",
		"Window title":                                     "ウィンドウタイトル",
		"Output directory of the png presenter":            "png表示方式の出力ディレクトリ",
		"Write one PNG every N frames":                     "Nフレームごとに1枚のPNGを書き出す",
		"Draw the frame index and timestamp on PNG frames": "PNGにフレーム番号とタイムスタンプを描画",
		"Pacing strategy (clock, fixed)":                   "ペーシング方式（clock, fixed）",
		"Largest frame wait before the clock is re-based":  "時計を再設定するまでの最大待ち時間",
		"Frame rate used when the stream has none":         "ストリームにフレームレートがない場合の値",
		"Serve Prometheus metrics on this address":         "このアドレスでPrometheusメトリクスを公開",
		"Write a Markdown playback summary to this file":   "再生サマリーをMarkdownでこのファイルに書き出す",
		"Log level (debug, info, warn, error)":             "ログレベル（debug, info, warn, error）",
		"Suppress all log output":                          "ログ出力をすべて抑制",
		"Output format (text, yaml)":                       "出力形式（text, yaml）",
		"Number of files opened at once":                   "同時に開くファイル数",

		// Summary
		"Playback Summary": "再生サマリー",
		"Source":           "入力",
		"Stream":           "ストリーム",
		"Pipeline":         "パイプライン",
		"Playback":         "再生",
		"Item":             "項目",
		"Value":            "値",
		"File":             "ファイル",
		"File Size":        "ファイルサイズ",
		"Codec":            "コーデック",
		"Resolution":       "解像度",
		"Frame Rate":       "フレームレート",
		"Demuxer":          "デマルチプレクサー",
		"Decoder":          "デコーダー",
		"Converter":        "変換",
		"Presenter":        "表示",
		"Pacing":           "ペーシング",
		"Stopped By":       "停止理由",
		"Read Error":       "読み込みエラー",
		"Packets Read":     "読み込みパケット数",
		"Video Packets":    "映像パケット数",
		"Packets Rejected": "拒否されたパケット数",
		"Frames Decoded":   "デコードしたフレーム数",
		"Frames Presented": "表示したフレーム数",
		"Clock Rebases":    "時計の再設定回数",
		"Max Lateness":     "最大遅延",
		"Elapsed":          "経過時間",
		"Generated at":     "生成日時",
		"end of stream":    "ストリーム終端",
		"read error":       "読み込みエラー",
		"quit requested":   "ユーザーによる終了",
		"cancelled":        "中断",
	})
}
