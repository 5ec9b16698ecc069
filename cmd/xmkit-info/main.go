package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/xmkit/xmkit"
	"github.com/xmkit/xmkit/midiexport"
	"github.com/xmkit/xmkit/render"
	"github.com/xmkit/xmkit/summary"
	"github.com/xmkit/xmkit/version"
)

func main() {
	stdout := flag.Bool("s", false, "Do not write files; write to standard output instead.")
	help := flag.Bool("h", false, "Show help.")
	directory := flag.String("o", "", "Directory where to output all files. The directory and its parents are created if needed. By default, everything is placed in the working directory.")
	yamlOut := flag.Bool("yaml", false, "Output a summary of the module as .yml (default behaviour when no other output is defined).")
	jsonOut := flag.Bool("json", false, "Output a summary of the module as .json.")
	templateFile := flag.String("t", "", "Render the summary with the Go text/template in this file and output it as .txt. Sprig functions are available.")
	patternIndex := flag.Int("p", -1, "Print the pattern with this index to standard output.")
	effective := flag.Bool("e", false, "When printing a pattern, show the effective note, instrument, volume and speed of every row instead of the coded cells.")
	stats := flag.Bool("stats", false, "Print the peak and RMS level of every sample to standard output.")
	rawOut := flag.Bool("r", false, "Output every sample as a headerless .raw file, in the same format as with -w.")
	wavOut := flag.Bool("w", false, "Output every sample as a .wav file.")
	rate := flag.Int("rate", xmkit.DefaultSampleRate, "Sample rate written in the headers of the .wav files.")
	pngOut := flag.Bool("png", false, "Output the waveform of every sample as a .png file.")
	midiOut := flag.Bool("m", false, "Output the notes of the song as a .mid file.")
	rowsPerBeat := flag.Int("rpb", 4, "Pattern rows per quarter note in the .mid file.")
	debug := flag.Bool("debug", false, "Log progress to standard error.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() == 0 || *help {
		flag.Usage()
		os.Exit(0)
	}
	log.SetFlags(log.Lmicroseconds)
	if !*debug {
		log.SetOutput(io.Discard)
	}
	if !*jsonOut && *templateFile == "" && *patternIndex < 0 && !*stats && !*rawOut && !*wavOut && !*pngOut && !*midiOut {
		*yamlOut = true
	}
	var templateText string
	if *templateFile != "" {
		b, err := os.ReadFile(*templateFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not read template %v: %v\n", *templateFile, err)
			os.Exit(1)
		}
		templateText = string(b)
	}
	process := func(filename string) error {
		output := func(suffix string, contents []byte) error {
			if *stdout {
				_, err := os.Stdout.Write(contents)
				return err
			}
			_, name := filepath.Split(filename)
			dir := *directory
			if dir == "" {
				var err error
				dir, err = os.Getwd()
				if err != nil {
					return fmt.Errorf("could not get working directory, specify the output directory explicitly: %v", err)
				}
			}
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				return fmt.Errorf("could not create output directory %v: %v", dir, err)
			}
			f := filepath.Join(dir, strings.TrimSuffix(name, filepath.Ext(name))+suffix)
			if err := os.WriteFile(f, contents, 0644); err != nil {
				return fmt.Errorf("could not write file %v: %v", f, err)
			}
			log.Printf("wrote %v (%d bytes)", f, len(contents))
			return nil
		}
		m, err := xmkit.ParseFile(filename)
		if err != nil {
			return err
		}
		log.Printf("parsed %v: %d channels, %d patterns, %d instruments", filename, m.Channels(), m.NumPatterns(), m.NumInstruments())
		s := summary.New(m)
		if *yamlOut {
			contents, err := s.YAML()
			if err != nil {
				return fmt.Errorf("could not marshal summary as yaml: %v", err)
			}
			if err := output(".yml", contents); err != nil {
				return fmt.Errorf("error outputting .yml file: %v", err)
			}
		}
		if *jsonOut {
			contents, err := s.JSON()
			if err != nil {
				return fmt.Errorf("could not marshal summary as json: %v", err)
			}
			if err := output(".json", contents); err != nil {
				return fmt.Errorf("error outputting .json file: %v", err)
			}
		}
		if templateText != "" {
			var buf bytes.Buffer
			if err := summary.Execute(&buf, templateText, s); err != nil {
				return err
			}
			if err := output(".txt", buf.Bytes()); err != nil {
				return fmt.Errorf("error outputting .txt file: %v", err)
			}
		}
		if *patternIndex >= 0 {
			p := m.Pattern(*patternIndex)
			if p == nil {
				return fmt.Errorf("pattern %d does not exist, the module has %d patterns", *patternIndex, m.NumPatterns())
			}
			text, err := render.Pattern(m, p, render.Options{Effective: *effective, Speed: *effective, BeatRows: 4})
			if err != nil {
				return fmt.Errorf("could not render pattern %d: %v", *patternIndex, err)
			}
			fmt.Print(text)
		}
		for i := 0; i < m.NumInstruments(); i++ {
			inst := m.Instrument(i)
			for j := 0; j < inst.NumSamples(); j++ {
				sample := inst.Sample(j)
				suffix := fmt.Sprintf("_%02X_%02d", i+1, j)
				if *stats {
					st := render.SampleStats(sample)
					fmt.Printf("%02X/%02d %-22q %7d frames  peak %6.1f dBFS  rms %6.1f dBFS  dc %+.3f\n", i+1, j, sample.Name(), st.Frames, st.PeakDB(), st.RMSDB(), st.DC)
				}
				if *rawOut {
					raw, err := sample.Raw()
					if err != nil {
						return fmt.Errorf("could not generate .raw file: %v", err)
					}
					if err := output(suffix+".raw", raw); err != nil {
						return fmt.Errorf("error outputting .raw file: %v", err)
					}
				}
				if *wavOut {
					wav, err := sample.Wav(*rate)
					if err != nil {
						return fmt.Errorf("could not generate .wav file: %v", err)
					}
					if err := output(suffix+".wav", wav); err != nil {
						return fmt.Errorf("error outputting .wav file: %v", err)
					}
				}
				if *pngOut {
					var buf bytes.Buffer
					if err := render.WaveformPNG(&buf, sample, 512, 128); err != nil {
						return fmt.Errorf("could not draw waveform: %v", err)
					}
					if err := output(suffix+".png", buf.Bytes()); err != nil {
						return fmt.Errorf("error outputting .png file: %v", err)
					}
				}
			}
		}
		if *midiOut {
			song, err := midiexport.Song(m, midiexport.Options{RowsPerBeat: *rowsPerBeat})
			if err != nil {
				return fmt.Errorf("could not convert to midi: %v", err)
			}
			var buf bytes.Buffer
			if _, err := song.WriteTo(&buf); err != nil {
				return fmt.Errorf("could not generate .mid file: %v", err)
			}
			if err := output(".mid", buf.Bytes()); err != nil {
				return fmt.Errorf("error outputting .mid file: %v", err)
			}
		}
		return nil
	}
	retval := 0
	for _, param := range flag.Args() {
		if info, err := os.Stat(param); err == nil && info.IsDir() {
			files, err := filepath.Glob(filepath.Join(param, "*.xm"))
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not glob the path %v for xm files: %v\n", param, err)
				retval = 1
				continue
			}
			for _, file := range files {
				if err := process(file); err != nil {
					fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", file, err)
					retval = 1
				}
			}
		} else {
			if err := process(param); err != nil {
				fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", param, err)
				retval = 1
			}
		}
	}
	os.Exit(retval)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "xmkit command line utility for inspecting and converting .xm modules.\nUsage: %s [flags] [path ...]\n", os.Args[0])
	flag.PrintDefaults()
}
