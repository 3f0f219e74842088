// Package main provides localization for the videoread CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Read video containers frame by frame: metadata, frames, audio, contact sheets.": "動画コンテナをフレーム単位で読み取り: メタデータ、フレーム、音声、コンタクトシート。",

		// Commands
		"Show container metadata.":               "コンテナのメタデータを表示。",
		"Extract video frames as PNG images.":    "映像フレームをPNG画像として抽出。",
		"Extract the audio stream as raw PCM.":   "音声ストリームを生PCMとして抽出。",
		"Compose a contact sheet from frames.":   "フレームからコンタクトシートを作成。",
		"Show version information.":              "バージョン情報を表示。",

		// Flags
		"Container file path.":                   "コンテナファイルパス。",
		"Output directory.":                      "出力ディレクトリ。",
		"YAML configuration file path.":          "YAML設定ファイルパス。",
		"Frame width (0 = native).":              "フレーム幅（0 = ネイティブ）。",
		"Frame height (0 = native).":             "フレーム高さ（0 = ネイティブ）。",
		"Extract 8-bit grayscale frames.":        "8bitグレースケールでフレームを抽出。",
		"Save packed pixel bytes instead of PNG.": "PNGの代わりにパック済みピクセルバイト列を保存。",
		"Seek to this time (seconds) before reading.": "読み取り前にこの時刻（秒）へシーク。",
		"Seek to the exact time instead of the preceding keyframe.": "直前のキーフレームではなく正確な時刻へシーク。",
		"Stop after this many frames (0 = all).": "このフレーム数で停止（0 = 全て）。",
		"Keep every Nth frame.":                  "Nフレームごとに保存。",
		"Decode without writing output.":         "出力を書き込まずにデコードのみ実行。",
		"Number of frames to sample.":            "サンプリングするフレーム数。",
		"Path to ffmpeg binary for H.264 decoding.": "H.264デコード用ffmpegバイナリのパス。",
		"Log level (debug, info, warn, error, quiet).": "ログレベル（debug, info, warn, error, quiet）。",
		"Suppress all log output.":               "全てのログ出力を抑制。",

		// Info output labels
		"Size":        "サイズ",
		"Codec":       "コーデック",
		"Frame rate":  "フレームレート",
		"Frame count": "フレーム数",

		// Runtime messages
		"Interrupted, shutting down...": "中断されました。シャットダウン中...",
		"videoread version %s":          "videoread バージョン %s",
	})
}
