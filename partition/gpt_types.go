package partition

import "github.com/google/uuid"

var gptTypeLabels = [][2]string{
	{"024DEE41-33E7-11D3-9D69-0008C781F39F", "MBR scheme"},
	{"C12A7328-F81F-11D2-BA4B-00A0C93EC93B", "EFI System"},
	{"21686148-6449-6E6F-744E-656564454649", "BIOS Boot"},
	{"D3BFE2DE-3DAF-11DF-BA40-E3A556D89593", "Intel Fast Flash (iFFS)"},
	{"F4019732-066E-4E12-8273-346C5641494F", "Sony boot"},
	{"BFBFAFE7-A34F-448A-9A5B-6213EB736C22", "Lenovo boot"},
	{"E3C9E316-0B5C-4DB8-817D-F92DF00215AE", "Microsoft Reserved (MSR)"},
	{"EBD0A0A2-B9E5-4433-87C0-68B6B72699C7", "Microsoft Basic data"},
	{"5808C8AA-7E8F-42E0-85D2-E1E90434CFB3", "Logical Disk Manager (LDM) metadata"},
	{"AF9B60A0-1431-4F62-BC68-3311714A69AD", "Logical Disk Manager data"},
	{"DE94BBA4-06D1-4D40-A16A-BFD50179D6AC", "Windows Recovery Environment"},
	{"37AFFC90-EF7D-4E96-91C3-2D7AE055B174", "IBM General Parallel File System (GPFS)"},
	{"E75CAF8F-F680-4CEE-AFA3-B001E56EFC2D", "Windows Storage Spaces"},
	{"75894C1E-3AEB-11D3-B7C1-7B03A0000000", "HP-UX Data"},
	{"E2A1E728-32E3-11D6-A682-7B03A0000000", "HP-UX Service"},
	{"0FC63DAF-8483-4772-8E79-3D69D8477DE4", "Linux filesystem"},
	{"A19D880F-05FC-4D3B-A006-743F0F84911E", "Linux RAID"},
	{"44479540-F297-41B2-9AF7-D131D5F0458A", "Linux root (x86)"},
	{"4F68BCE3-E8CD-4DB1-96E7-FBCAF984B709", "Linux root (x86-64)"},
	{"69DAD710-2CE4-4E3C-B16C-21A1D49ABED3", "Linux root (ARM)"},
	{"B921B045-1DF0-41C3-AF44-4C6F280D3FAE", "Linux root (AArch64)"},
	{"0657FD6D-A4AB-43C4-84E5-0933C84B4F4F", "Linux swap"},
	{"E6D6D379-F507-44C2-A23C-238F2A3DF928", "Linux LVM"},
	{"933AC7E1-2EB4-4F13-B844-0E14E2AEF915", "Linux /home"},
	{"3B8F8425-20E0-4F3B-907F-1A25A76F98E8", "Linux /srv"},
	{"7FFEC5C9-2D00-49B7-8941-3EA10A5586B7", "Linux plain dm-crypt"},
	{"CA7D7CCB-63ED-4C53-861C-1742536059CC", "Linux LUKS"},
	{"8DA63339-0007-60C0-C436-083AC8230908", "Linux reserved"},
	{"BC13C2FF-59E6-4262-A352-B275FD6F7172", "Linux extended boot"},
	{"83BD6B9D-7F41-11DC-BE0B-001560B84F0F", "FreeBSD boot"},
	{"516E7CB4-6ECF-11D6-8FF8-00022D09712B", "FreeBSD data"},
	{"516E7CB5-6ECF-11D6-8FF8-00022D09712B", "FreeBSD swap"},
	{"516E7CB6-6ECF-11D6-8FF8-00022D09712B", "FreeBSD UFS"},
	{"516E7CB8-6ECF-11D6-8FF8-00022D09712B", "FreeBSD Vinum"},
	{"516E7CBA-6ECF-11D6-8FF8-00022D09712B", "FreeBSD ZFS"},
	{"74BA7DD9-A689-11E1-BD04-00E081286ACF", "FreeBSD nandfs"},
	{"48465300-0000-11AA-AA11-00306543ECAC", "Apple HFS"},
	{"7C3457EF-0000-11AA-AA11-00306543ECAC", "Apple APFS"},
	{"55465300-0000-11AA-AA11-00306543ECAC", "Apple UFS"},
	{"52414944-0000-11AA-AA11-00306543ECAC", "Apple RAID"},
	{"52414944-5F4F-11AA-AA11-00306543ECAC", "Apple RAID, offline"},
	{"426F6F74-0000-11AA-AA11-00306543ECAC", "Apple Boot"},
	{"4C616265-6C00-11AA-AA11-00306543ECAC", "Apple Label"},
	{"5265636F-7665-11AA-AA11-00306543ECAC", "Apple TV Recovery"},
	{"53746F72-6167-11AA-AA11-00306543ECAC", "Apple Core Storage"},
	{"6A82CB45-1DD2-11B2-99A6-080020736631", "Solaris boot"},
	{"6A85CF4D-1DD2-11B2-99A6-080020736631", "Solaris root"},
	{"6A87C46F-1DD2-11B2-99A6-080020736631", "Solaris swap"},
	{"6A8B642B-1DD2-11B2-99A6-080020736631", "Solaris backup"},
	{"6A898CC3-1DD2-11B2-99A6-080020736631", "Solaris /usr or Apple ZFS"},
	{"6A8EF2E9-1DD2-11B2-99A6-080020736631", "Solaris /var"},
	{"6A90BA39-1DD2-11B2-99A6-080020736631", "Solaris /home"},
	{"6A9283A5-1DD2-11B2-99A6-080020736631", "Solaris alternate sector"},
	{"6A945A3B-1DD2-11B2-99A6-080020736631", "Solaris reserved"},
	{"6A9630D1-1DD2-11B2-99A6-080020736631", "Solaris reserved"},
	{"6A980767-1DD2-11B2-99A6-080020736631", "Solaris reserved"},
	{"6A96237F-1DD2-11B2-99A6-080020736631", "Solaris reserved"},
	{"6A8D2AC7-1DD2-11B2-99A6-080020736631", "Solaris reserved"},
	{"49F48D32-B10E-11DC-B99B-0019D1879648", "NetBSD swap"},
	{"49F48D5A-B10E-11DC-B99B-0019D1879648", "NetBSD FFS"},
	{"49F48D82-B10E-11DC-B99B-0019D1879648", "NetBSD LFS"},
	{"49F48DAA-B10E-11DC-B99B-0019D1879648", "NetBSD RAID"},
	{"2DB519C4-B10F-11DC-B99B-0019D1879648", "NetBSD concatenated"},
	{"2DB519EC-B10F-11DC-B99B-0019D1879648", "NetBSD encrypted"},
	{"824CC7A0-36A8-11E3-890A-952519AD3F61", "OpenBSD data"},
	{"FE3A2A5D-4F32-41A7-B725-ACCC3285A309", "ChromeOS kernel"},
	{"3CB8E202-3B7E-47DD-8A3C-7FF2A13CFCEC", "ChromeOS rootfs"},
	{"2E0A753D-9E48-43B0-8337-B15192CB1B5E", "ChromeOS future use"},
	{"42465331-3BA3-10F1-802A-4861696B7521", "Haiku BFS"},
	{"85D5E45E-237C-11E1-B4B3-E89A8F7FC3A7", "MidnightBSD boot"},
	{"85D5E45A-237C-11E1-B4B3-E89A8F7FC3A7", "MidnightBSD data"},
	{"85D5E45B-237C-11E1-B4B3-E89A8F7FC3A7", "MidnightBSD swap"},
	{"0394EF8B-237E-11E1-B4B3-E89A8F7FC3A7", "MidnightBSD UFS"},
	{"85D5E45C-237C-11E1-B4B3-E89A8F7FC3A7", "MidnightBSD Vinum"},
	{"85D5E45D-237C-11E1-B4B3-E89A8F7FC3A7", "MidnightBSD ZFS"},
	{"45B0969E-9B03-4F30-B4C6-5EC00CEFF106", "Ceph dm-crypt journal"},
	{"45B0969E-9B03-4F30-B4C6-B4B80CEFF106", "Ceph journal"},
	{"4FBD7E29-9D25-41B8-AFD0-062C0CEFF05D", "Ceph OSD"},
	{"4FBD7E29-9D25-41B8-AFD0-5EC00CEFF05D", "Ceph dm-crypt OSD"},
	{"89C57F98-2FE5-4DC0-89C1-F3AD0CEFF2BE", "Ceph disk in creation"},
	{"89C57F98-2FE5-4DC0-89C1-5EC00CEFF2BE", "Ceph dm-crypt disk in creation"},
	{"AA31E02A-400F-11DB-9590-000C2911D1B8", "VMware VMFS"},
	{"9198EFFC-31C0-11DB-8F78-000C2911D1B8", "VMware reserved"},
	{"9D275380-40AD-11DB-BF97-000C2911D1B8", "VMware vmkcore"},
	{"381CFCCC-7288-11E0-92EE-000C2911D0B2", "VMware vSAN"},
	{"9E1A2D38-C612-4316-AA26-8B49521E5A8B", "PowerPC PReP boot"},
	{"CEF5A9AD-73BC-4601-89F3-CDEEEEE321A1", "QNX6 power-safe"},
	{"C91818F9-8025-47AF-89D2-F030D7000C2C", "Plan 9"},
	{"DC27C4C2-B4B9-4B16-8D2F-7F51CFB1CA36", "DragonFly BSD legacy"},
	{"9D087404-1CA5-11DC-8817-01301BB8A9F5", "DragonFly BSD label32"},
	{"3D48CE54-1D16-11DC-8696-01301BB8A9F5", "DragonFly BSD label64"},
	{"DBD5211B-1CA5-11DC-8817-01301BB8A9F5", "DragonFly BSD CCD"},
	{"9D58FDBD-1CA5-11DC-8817-01301BB8A9F5", "DragonFly BSD swap"},
	{"9D94CE7C-1CA5-11DC-8817-01301BB8A9F5", "DragonFly BSD UFS"},
	{"9DD4478F-1CA5-11DC-8817-01301BB8A9F5", "DragonFly BSD Vinum"},
	{"61DC63AC-6E38-11DC-8513-001635542B33", "DragonFly BSD HAMMER"},
	{"5CBB9AD1-862D-11DC-A94D-01301BB8A9F5", "DragonFly BSD HAMMER2"},
	{"FE8A2634-5E2E-46BA-99E3-3A192091A350", "Android bootloader"},
	{"114EAFFE-1552-4022-B26E-9B053604CF84", "Android bootloader 2"},
	{"20117F86-E985-4357-B9EE-374BC1D8487D", "Android boot"},
	{"38F428E6-D326-425D-9140-6E0EA133647C", "Android system"},
	{"DC76DDA9-5AC1-491C-AF42-A82591580C0D", "Android data"},
	{"EF32A33B-A409-486C-9141-9FFB711F6266", "Android misc"},
	{"4177C722-9E92-4AAB-8644-43502BFD5506", "Android recovery"},
	{"7412F7D5-A156-4B13-81DC-867174929325", "ONIE boot"},
	{"D4E6E2CD-4469-46F3-B5CB-1BFF57AFC149", "ONIE config"},
	{"734E5AFE-F61A-11E6-BC64-92361F002671", "Atari TOS basic data"},
	{"5B193300-FC78-40CD-8002-E86C45580B47", "Coreboot"},
	{"2568845D-2332-4675-BC39-8FA5A4748D15", "U-Boot environment"},
}

var gptTypes = func() map[uuid.UUID]string {
	m := make(map[uuid.UUID]string, len(gptTypeLabels))
	for _, t := range gptTypeLabels {
		m[uuid.MustParse(t[0])] = t[1]
	}
	return m
}()

// guidToUUID converts the on-disk mixed-endian GUID layout, whose first three
// groups are little-endian, into RFC 4122 byte order.
func guidToUUID(b [16]byte) uuid.UUID {
	var u uuid.UUID
	u[0], u[1], u[2], u[3] = b[3], b[2], b[1], b[0]
	u[4], u[5] = b[5], b[4]
	u[6], u[7] = b[7], b[6]
	copy(u[8:], b[8:])
	return u
}

// uuidToGUID is the inverse of guidToUUID.
func uuidToGUID(u uuid.UUID) [16]byte {
	var b [16]byte
	b[0], b[1], b[2], b[3] = u[3], u[2], u[1], u[0]
	b[4], b[5] = u[5], u[4]
	b[6], b[7] = u[7], u[6]
	copy(b[8:], u[8:])
	return b
}

func gptTypeName(u uuid.UUID) string {
	return gptTypes[u]
}
