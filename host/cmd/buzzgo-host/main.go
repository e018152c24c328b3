package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"buzzgo/core"
	"buzzgo/host/device"
	"buzzgo/seqfile"
)

var (
	devicePath = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud       = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
)

var log zerolog.Logger

func main() {
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(level).With().Timestamp().Logger()

	fmt.Println("Buzzgo Host - Serial Buzzer Console")
	fmt.Println("===================================")

	log.Info().Str("device", *devicePath).Int("baud", *baud).Msg("connecting")
	dev, err := device.Connect(*devicePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect")
	}
	defer dev.Close()

	if err := dev.Ping(); err != nil {
		log.Fatal().Err(err).Msg("device not answering")
	}
	log.Info().Msg("connected")

	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "quit", "exit", "q":
			fmt.Println("Goodbye!")
			return

		case "help", "?":
			printHelp()

		case "beep":
			runBeep(dev, args)

		case "pulse":
			runPulse(dev, args)

		case "pattern":
			runPattern(dev, args)

		case "melody":
			runMelody(dev, args)

		case "play":
			runPlay(dev, args)

		case "stop":
			if err := dev.Stop(); err != nil {
				log.Error().Err(err).Msg("stop failed")
			}

		case "status":
			st, err := dev.Status()
			if err != nil {
				log.Error().Err(err).Msg("status failed")
				continue
			}
			fmt.Printf("pulse=%v pattern=%v melody=%v\n", st.Pulse, st.Pattern, st.Melody)

		default:
			fmt.Printf("Unknown command: %s (type 'help' for available commands)\n", cmd)
		}
	}
}

func printHelp() {
	fmt.Println("Available commands:")
	fmt.Println("  beep [freq dur]             - single tone (defaults 800Hz/30ms)")
	fmt.Println("  pulse <n> <freq> <dur> <gap> - pulse train")
	fmt.Println("  pattern <file> [repeat] [delay] - load '# pattern' file and play")
	fmt.Println("  melody <file> [repeat]      - load '# play' file and play")
	fmt.Println("  play <file>                 - play a '# play' file, wait for the end")
	fmt.Println("  stop                        - stop all playback")
	fmt.Println("  status                      - show device scheduling state")
	fmt.Println("  quit                        - exit")
}

func runBeep(dev *device.Device, args []string) {
	freq, dur := uint16(core.DefaultAckFreq), uint16(core.DefaultAckDuration)
	if len(args) >= 2 {
		freq = parseU16(args[0], freq)
		dur = parseU16(args[1], dur)
	}
	if err := dev.Beep(freq, dur); err != nil {
		log.Error().Err(err).Msg("beep failed")
	}
}

func runPulse(dev *device.Device, args []string) {
	if len(args) < 4 {
		fmt.Println("usage: pulse <count> <freq> <dur> <interval>")
		return
	}
	count, _ := strconv.Atoi(args[0])
	if count <= 0 || count > 255 {
		fmt.Println("count must be 1..255")
		return
	}
	err := dev.Pulse(uint8(count), parseU16(args[1], 0), parseU16(args[2], 0), parseU16(args[3], 0))
	if err != nil {
		log.Error().Err(err).Msg("pulse failed")
	}
}

func runPattern(dev *device.Device, args []string) {
	if len(args) < 1 {
		fmt.Println("usage: pattern <file> [repeat] [delay]")
		return
	}
	var pulses [seqfile.MaxPatternPulses]core.Pulse
	n, err := seqfile.LoadPatternFile(args[0], pulses[:])
	if err != nil {
		log.Error().Err(err).Str("file", args[0]).Msg("pattern load failed")
		return
	}
	log.Debug().Int("entries", n).Str("file", args[0]).Msg("pattern loaded")

	repeat := len(args) >= 2 && args[1] == "repeat"
	delay := uint16(core.DefaultPatternGap)
	if len(args) >= 3 {
		delay = parseU16(args[2], delay)
	}
	if err := dev.Pattern(pulses[:n], repeat, delay); err != nil {
		log.Error().Err(err).Msg("pattern failed")
	}
}

func runMelody(dev *device.Device, args []string) {
	if len(args) < 1 {
		fmt.Println("usage: melody <file> [repeat]")
		return
	}
	tones, n, err := loadTones(args[0])
	if err != nil {
		return
	}
	repeat := len(args) >= 2 && args[1] == "repeat"
	if err := dev.Melody(tones[:n], repeat); err != nil {
		log.Error().Err(err).Msg("melody failed")
	}
}

// runPlay is the blocking convenience: start the melody, then poll the
// device until its melody layer goes inactive.
func runPlay(dev *device.Device, args []string) {
	if len(args) < 1 {
		fmt.Println("usage: play <file>")
		return
	}
	tones, n, err := loadTones(args[0])
	if err != nil {
		return
	}
	if err := dev.Melody(tones[:n], false); err != nil {
		log.Error().Err(err).Msg("play failed")
		return
	}
	for {
		time.Sleep(200 * time.Millisecond)
		st, err := dev.Status()
		if err != nil {
			log.Error().Err(err).Msg("status failed")
			return
		}
		if !st.Melody && !st.Pulse && !st.Pattern {
			break
		}
	}
	fmt.Println("Play finished.")
}

func loadTones(path string) ([seqfile.MaxMelodyTones]core.Tone, int, error) {
	var tones [seqfile.MaxMelodyTones]core.Tone
	n, err := seqfile.LoadTonesFile(path, tones[:])
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("melody load failed")
		return tones, 0, err
	}
	log.Debug().Int("tones", n).Str("file", path).Msg("melody loaded")
	return tones, n, nil
}

func parseU16(s string, def uint16) uint16 {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return def
	}
	return uint16(v)
}
