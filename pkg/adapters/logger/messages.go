package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Reader session messages (debug)
		"Opened %s: %dx%d %s, %d frames declared": "%s を開きました: %dx%d %s, 宣言フレーム数 %d",
		"End of video stream at %.3fs":            "%.3fs で映像ストリームの終端に達しました",
		"Seeked to %.3fs (requested %.3fs, keyframe=%v)": "%.3fs へシークしました (要求 %.3fs, キーフレーム=%v)",

		// CLI messages (info)
		"Reading frames from %s":       "%s からフレームを読み込み中",
		"Extracted %d frames to %s":    "%d フレームを %s へ抽出しました",
		"Drained %d bytes of PCM audio": "PCM 音声 %d バイトを取り出しました",
		"Audio saved to %s":             "音声を %s に保存しました",
		"Composing contact sheet: %d columns x %d rows": "コンタクトシートを作成中: %d 列 x %d 行",
		"Contact sheet saved to %s":     "コンタクトシートを %s に保存しました",

		// Errors
		"Failed to open %s: %s":      "%s を開けませんでした: %s",
		"Failed to read frame: %s":   "フレームの読み込みに失敗しました: %s",
		"Failed to write output: %s": "出力の書き込みに失敗しました: %s",
	})
}
